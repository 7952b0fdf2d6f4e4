package dto

// RecipeDTO 食谱
type RecipeDTO struct {
	ID               string   `json:"id"`
	AuthorID         string   `json:"authorId"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Ingredients      *string  `json:"ingredients"`
	PreparationSteps *string  `json:"preparationSteps"`
	MediaURLs        []string `json:"mediaUrls"`
	VideoURL         *string  `json:"videoUrl"`
	Categories       []string `json:"categories"`
	Tags             []string `json:"tags"`
	IsVariation      bool     `json:"isVariation"`
	ParentRecipeID   *string  `json:"parentRecipeId"`
	RatingAvg        float64  `json:"ratingAvg"`
	RatingsCount     int64    `json:"ratingsCount"`
	Status           string   `json:"status"`
	CreatedAt        string   `json:"createdAt"`

	Author   *UserDTO `json:"author,omitempty"`
	MyRating *int     `json:"myRating,omitempty"`
}

// RecipeCreateDTO 食谱 - 新增，未填写描述时由配料与步骤拼接
type RecipeCreateDTO struct {
	Title            string   `json:"title" binding:"required" validate:"min=1,max=200"`
	Description      *string  `json:"description" validate:"omitempty,max=5000"`
	Ingredients      *string  `json:"ingredients" validate:"omitempty,max=10000"`
	PreparationSteps *string  `json:"preparationSteps" validate:"omitempty,max=20000"`
	MediaURLs        []string `json:"mediaUrls" validate:"max=10,dive,min=1,max=512"`
	VideoURL         *string  `json:"videoUrl" validate:"omitempty,max=512"`
	Categories       []string `json:"categories" validate:"max=30,dive,min=1,max=64"`
	Tags             []string `json:"tags" validate:"max=30,dive,min=1,max=64"`
	Status           string   `json:"status" validate:"omitempty,oneof=published draft"`
}

// RecipeUpdateDTO 食谱 - 修改，nil 字段保持不变
type RecipeUpdateDTO struct {
	Title            *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Description      *string   `json:"description" validate:"omitempty,min=1,max=5000"`
	Ingredients      *string   `json:"ingredients" validate:"omitempty,max=10000"`
	PreparationSteps *string   `json:"preparationSteps" validate:"omitempty,max=20000"`
	MediaURLs        *[]string `json:"mediaUrls" validate:"omitempty,max=10,dive,min=1,max=512"`
	VideoURL         *string   `json:"videoUrl" validate:"omitempty,max=512"`
	Categories       *[]string `json:"categories" validate:"omitempty,max=30,dive,min=1,max=64"`
	Tags             *[]string `json:"tags" validate:"omitempty,max=30,dive,min=1,max=64"`
	Status           *string   `json:"status" validate:"omitempty,oneof=published draft"`
}

// RecipeSearchDTO 搜索参数，categoryIds / tagIds 为逗号分隔列表
type RecipeSearchDTO struct {
	Query       string `form:"query"`
	CategoryIDs string `form:"categoryIds"`
	TagIDs      string `form:"tagIds"`
	Limit       string `form:"limit"`
	Cursor      string `form:"cursor"`
}

// AuthorRecipesQueryDTO 作者食谱列表，status 仅作者本人可指定 draft
type AuthorRecipesQueryDTO struct {
	Status string `form:"status" validate:"omitempty,oneof=published draft"`
	Limit  string `form:"limit"`
	Cursor string `form:"cursor"`
}

// FavoritesQueryDTO 收藏列表的内存过滤参数
type FavoritesQueryDTO struct {
	Query       string `form:"query"`
	CategoryIDs string `form:"categoryIds"`
	TagIDs      string `form:"tagIds"`
	Limit       string `form:"limit"`
}
