package model

import (
	"time"
)

type User struct {
	ID                string     `bson:"_id" json:"id"`
	Name              string     `bson:"name" json:"name"`
	Email             string     `bson:"email" json:"email"`
	PhotoURL          *string    `bson:"photo_url,omitempty" json:"photoUrl"`
	FollowersCount    int64      `bson:"followers_count" json:"followersCount"`
	FollowingCount    int64      `bson:"following_count" json:"followingCount"`
	PopularityScore   float64    `bson:"popularity_score" json:"popularityScore"`
	FavoriteRecipeIDs []string   `bson:"favorite_recipe_ids" json:"favoriteRecipeIds"`
	IsAdsFree         bool       `bson:"is_ads_free" json:"isAdsFree"`
	CreatedAt         time.Time  `bson:"created_at" json:"createdAt"`
	DeletedAt         *time.Time `bson:"deleted_at,omitempty" json:"deletedAt"` // 软删除标记
}

func (User) CollectionName() string {
	return CollectionUsers
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}
