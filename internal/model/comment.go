package model

import "time"

type Comment struct {
	ID        string    `bson:"_id" json:"id"`
	RecipeID  string    `bson:"recipe_id" json:"recipeId"`
	AuthorID  string    `bson:"author_id" json:"authorId"`
	Text      string    `bson:"text" json:"text"`
	ParentID  *string   `bson:"parent_id" json:"parentId"` // nil 表示根评论
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

func (Comment) CollectionName() string {
	return CollectionComments
}

func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}
