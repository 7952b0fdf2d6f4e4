package dto

// CommentDTO 评论节点，Replies 按时间正序
type CommentDTO struct {
	ID           string        `json:"id"`
	RecipeID     string        `json:"recipeId"`
	AuthorID     string        `json:"authorId"`
	Text         string        `json:"text"`
	ParentID     *string       `json:"parentId"`
	CreatedAt    string        `json:"createdAt"`
	Author       *UserDTO      `json:"author"`
	Replies      []*CommentDTO `json:"replies"`
	RepliesCount int           `json:"repliesCount"`
}

// CommentCreateDTO 评论 - 新增，ParentID 为空表示根评论
type CommentCreateDTO struct {
	Text     string  `json:"text" binding:"required" validate:"min=1,max=2000"`
	ParentID *string `json:"parentId" validate:"omitempty,min=1,max=64"`
}
