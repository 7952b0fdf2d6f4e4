package model

import "time"

type Follow struct {
	ID          string    `bson:"_id" json:"id"`
	FollowerID  string    `bson:"follower_id" json:"followerId"`
	FollowingID string    `bson:"following_id" json:"followingId"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

func (Follow) CollectionName() string {
	return CollectionFollows
}

func FollowID(followerID, followingID string) string {
	return followerID + "_" + followingID
}
