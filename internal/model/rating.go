package model

import "time"

type Rating struct {
	ID        string    `bson:"_id" json:"id"`
	RecipeID  string    `bson:"recipe_id" json:"recipeId"`
	UserID    string    `bson:"user_id" json:"userId"`
	Stars     int       `bson:"stars" json:"stars"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

func (Rating) CollectionName() string {
	return CollectionRatings
}

// RatingID 同一 (recipe, user) 只对应一个文档 ID
func RatingID(recipeID, userID string) string {
	return recipeID + "_" + userID
}
