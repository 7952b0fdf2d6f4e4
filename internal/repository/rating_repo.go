package repository

import (
	"Potluck/internal/model"
	"Potluck/internal/pkg/docstore"
	"context"
)

type RatingRepo interface {
	GetRating(ctx context.Context, recipeID, userID string) (*model.Rating, error)
	GetRatings(ctx context.Context, userID string, recipeIDs []string) ([]*model.Rating, error)
	GetRecipeRatings(ctx context.Context, recipeID string) ([]*model.Rating, error)
}

type ratingRepoImpl struct {
	docRepo[model.Rating]
}

func NewRatingRepo(store docstore.Store) RatingRepo {
	return &ratingRepoImpl{docRepo: newDocRepo[model.Rating](store, model.CollectionRatings)}
}

// GetRating 按确定性 ID 点查，未评分时返回 docstore.ErrNotFound
func (s *ratingRepoImpl) GetRating(ctx context.Context, recipeID, userID string) (*model.Rating, error) {
	return s.get(ctx, model.RatingID(recipeID, userID))
}

// GetRatings 一次批量点查该用户对多份食谱的评分
func (s *ratingRepoImpl) GetRatings(ctx context.Context, userID string, recipeIDs []string) ([]*model.Rating, error) {
	ids := make([]string, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		ids = append(ids, model.RatingID(id, userID))
	}
	return s.getAll(ctx, ids)
}

// GetRecipeRatings 某食谱的全部评分行
func (s *ratingRepoImpl) GetRecipeRatings(ctx context.Context, recipeID string) ([]*model.Rating, error) {
	return s.find(ctx, docstore.Query{
		Where: []docstore.Filter{{Field: "recipe_id", Value: recipeID}},
	})
}
