package model

import "time"

const (
	RecipeStatusPublished = "published"
	RecipeStatusDraft     = "draft"
)

type Recipe struct {
	ID               string    `bson:"_id" json:"id"`
	AuthorID         string    `bson:"author_id" json:"authorId"`
	Title            string    `bson:"title" json:"title"`
	TitleLower       string    `bson:"title_lower" json:"-"` // 标题小写副本，用于子串匹配
	Description      string    `bson:"description" json:"description"`
	Ingredients      *string   `bson:"ingredients,omitempty" json:"ingredients"`
	PreparationSteps *string   `bson:"preparation_steps,omitempty" json:"preparationSteps"`
	MediaURLs        []string  `bson:"media_urls" json:"mediaUrls"`
	VideoURL         *string   `bson:"video_url,omitempty" json:"videoUrl"`
	Categories       []string  `bson:"categories" json:"categories"`
	Tags             []string  `bson:"tags" json:"tags"`
	IsVariation      bool      `bson:"is_variation" json:"isVariation"`
	ParentRecipeID   *string   `bson:"parent_recipe_id,omitempty" json:"parentRecipeId"`
	RatingAvg        float64   `bson:"rating_avg" json:"ratingAvg"`
	RatingsCount     int64     `bson:"ratings_count" json:"ratingsCount"`
	RatingVersion    int64     `bson:"rating_version" json:"-"` // 评分聚合的乐观锁版本
	PopularityScore  float64   `bson:"popularity_score" json:"popularityScore"`
	Status           string    `bson:"status" json:"status"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updatedAt"`
}

func (Recipe) CollectionName() string {
	return CollectionRecipes
}

func (r *Recipe) IsDraft() bool {
	return r.Status == RecipeStatusDraft
}

// VisibleTo 草稿仅作者可见
func (r *Recipe) VisibleTo(userID string) bool {
	return !r.IsDraft() || (userID != "" && r.AuthorID == userID)
}
