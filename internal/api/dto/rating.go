package dto

// RateDTO 评分请求
type RateDTO struct {
	Stars int `json:"stars" binding:"required"`
}

// RateResultDTO 评分后的聚合结果
type RateResultDTO struct {
	RecipeID     string  `json:"recipeId"`
	UserID       string  `json:"userId"`
	Stars        int     `json:"stars"`
	RatingAvg    float64 `json:"ratingAvg"`
	RatingsCount int64   `json:"ratingsCount"`
}

// MyRatingDTO 当前用户对某食谱的评分，未评分时 Stars 为 null
type MyRatingDTO struct {
	RecipeID string `json:"recipeId"`
	Stars    *int   `json:"stars"`
}
