package service

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/model"
	"Potluck/internal/pkg/consts"
	"Potluck/internal/pkg/docstore"
	"Potluck/internal/pkg/metrics"
	"Potluck/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"
)

// MaxRateAttempts 版本冲突时整轮读-算-写的最大尝试次数
const MaxRateAttempts = 5

type RatingService interface {
	Rate(ctx context.Context, recipeID, userID string, stars int) (*dto.RateResultDTO, error)
	GetMyRating(ctx context.Context, recipeID, userID string) (*dto.MyRatingDTO, error)
	GetMyRatings(ctx context.Context, userID string, recipeIDs []string) (map[string]int, error)
}

type ratingServiceImpl struct {
	store      docstore.Store
	recipeRepo repository.RecipeRepo
	ratingRepo repository.RatingRepo
	publisher  ActivityPublisher
}

func NewRatingService(
	store docstore.Store,
	recipeRepo repository.RecipeRepo,
	ratingRepo repository.RatingRepo,
	publisher ActivityPublisher,
) RatingService {
	if publisher == nil {
		publisher = NoopActivityPublisher()
	}
	return &ratingServiceImpl{
		store:      store,
		recipeRepo: recipeRepo,
		ratingRepo: ratingRepo,
		publisher:  publisher,
	}
}

// Rate 每个用户对同一食谱只保留一条评分，聚合字段与评分行在同一批次写入，
// 批次携带 rating_version 前置条件，并发覆盖时整轮重试
func (s *ratingServiceImpl) Rate(ctx context.Context, recipeID, userID string, stars int) (*dto.RateResultDTO, error) {
	if stars < 1 || stars > 5 {
		return nil, ErrInvalidStars
	}

	for attempt := 1; attempt <= MaxRateAttempts; attempt++ {
		result, err := s.rateOnce(ctx, recipeID, userID, stars)
		if err == nil {
			s.publisher.Publish(ctx, model.ActivityEvent{
				Type:       consts.ActivityRecipeRated,
				RecipeID:   recipeID,
				UserID:     userID,
				OccurredAt: time.Now(),
			})
			return result, nil
		}
		if !errors.Is(err, docstore.ErrConflict) {
			return nil, err
		}
		metrics.RatingConflictRetries.Inc()
		log.WarnContext(ctx, "Rating aggregate changed concurrently, retrying",
			"recipe_id", recipeID, "attempt", attempt)
	}
	return nil, ErrRatingContention
}

func (s *ratingServiceImpl) rateOnce(ctx context.Context, recipeID, userID string, stars int) (*dto.RateResultDTO, error) {
	recipe, err := s.recipeRepo.GetRecipe(ctx, recipeID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if !recipe.VisibleTo(userID) {
		return nil, ErrRecipeNotFound
	}

	now := time.Now()
	rating := &model.Rating{
		ID:        model.RatingID(recipeID, userID),
		RecipeID:  recipeID,
		UserID:    userID,
		Stars:     stars,
		CreatedAt: now,
		UpdatedAt: now,
	}
	existing, err := s.ratingRepo.GetRating(ctx, recipeID, userID)
	switch {
	case err == nil:
		rating.CreatedAt = existing.CreatedAt
	case !errors.Is(err, docstore.ErrNotFound):
		return nil, fmt.Errorf("load rating: %w", err)
	}

	all, err := s.ratingRepo.GetRecipeRatings(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	avg, count := aggregateStars(all, userID, stars)

	ops := []docstore.Op{
		{Kind: docstore.OpSet, Collection: model.CollectionRatings, ID: rating.ID, Doc: rating},
		{
			Kind:       docstore.OpUpdate,
			Collection: model.CollectionRecipes,
			ID:         recipeID,
			Fields: map[string]any{
				"rating_avg":    avg,
				"ratings_count": count,
			},
			Inc:          map[string]any{"rating_version": 1},
			// 从未被评分的食谱可能没有版本字段
			Precondition: &docstore.Filter{Field: "rating_version", Value: recipe.RatingVersion, OrMissing: recipe.RatingVersion == 0},
		},
	}
	if err = s.store.Commit(ctx, ops); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		if errors.Is(err, docstore.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("commit rating: %w", err)
	}

	return &dto.RateResultDTO{
		RecipeID:     recipeID,
		UserID:       userID,
		Stars:        stars,
		RatingAvg:    avg,
		RatingsCount: count,
	}, nil
}

// aggregateStars 用本次评分替换该用户的旧值后求平均
func aggregateStars(ratings []*model.Rating, userID string, stars int) (float64, int64) {
	sum := stars
	count := int64(1)
	for _, r := range ratings {
		if r.UserID == userID {
			continue
		}
		sum += r.Stars
		count++
	}
	return float64(sum) / float64(count), count
}

func (s *ratingServiceImpl) GetMyRating(ctx context.Context, recipeID, userID string) (*dto.MyRatingDTO, error) {
	result := &dto.MyRatingDTO{RecipeID: recipeID}
	rating, err := s.ratingRepo.GetRating(ctx, recipeID, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load rating: %w", err)
	}
	stars := rating.Stars
	result.Stars = &stars
	return result, nil
}

// GetMyRatings 返回 recipeID -> stars，未评分的食谱不在结果中
func (s *ratingServiceImpl) GetMyRatings(ctx context.Context, userID string, recipeIDs []string) (map[string]int, error) {
	ratings, err := s.ratingRepo.GetRatings(ctx, userID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	out := make(map[string]int, len(ratings))
	for _, r := range ratings {
		out[r.RecipeID] = r.Stars
	}
	return out, nil
}
