package dto

// UserDTO 用户公开资料
type UserDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	PhotoURL        *string `json:"photoUrl"`
	FollowersCount  int64   `json:"followersCount"`
	FollowingCount  int64   `json:"followingCount"`
	PopularityScore float64 `json:"popularityScore"`
	CreatedAt       string  `json:"createdAt"`
	IsAdsFree       bool    `json:"isAdsFree"`
}

// AccountUpdateDTO 修改资料
type AccountUpdateDTO struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	PhotoURL *string `json:"photoUrl" validate:"omitempty,max=512"`
}

// FollowResultDTO 关注 / 取关结果
type FollowResultDTO struct {
	FollowerID  string `json:"followerId"`
	FollowingID string `json:"followingId"`
	Success     bool   `json:"success"`
}

// FavoriteResultDTO 收藏 / 取消收藏结果
type FavoriteResultDTO struct {
	RecipeID  string `json:"recipeId"`
	Favorited bool   `json:"favorited"`
}

// CookDTO 推荐厨师，IsFollowing 仅在已登录时返回
type CookDTO struct {
	Profile      *UserDTO `json:"profile"`
	RecipesCount int      `json:"recipesCount"`
	IsFollowing  *bool    `json:"isFollowing,omitempty"`
}

// CookQueryDTO 推荐厨师参数
type CookQueryDTO struct {
	Query string `form:"query"`
	Limit string `form:"limit"`
}
