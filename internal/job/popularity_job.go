package job

import (
	"Potluck/internal/model"
	"Potluck/internal/pkg/consts"
	"Potluck/internal/pkg/logger"
	"Potluck/internal/pkg/metrics"
	"Potluck/internal/repository"
	"context"
	log "log/slog"
	"math"
	"sync"

	"github.com/google/uuid"
)

// DirtySource 热度脏集合，done 在处理完成后清理
type DirtySource interface {
	Drain(ctx context.Context, key string) ([]string, func(context.Context) error, error)
}

// PopularityJob 定时重算被评分或评论过的食谱热度
type PopularityJob struct {
	recipeRepo repository.RecipeRepo
	dirty      DirtySource
	mu         sync.Mutex
}

func NewPopularityJob(recipeRepo repository.RecipeRepo, dirty DirtySource) *PopularityJob {
	return &PopularityJob{recipeRepo: recipeRepo, dirty: dirty}
}

// PopularityScore 评分均值按评分人数的对数加权
func PopularityScore(ratingAvg float64, ratingsCount int64) float64 {
	if ratingsCount <= 0 {
		return 0
	}
	return ratingAvg * math.Log1p(float64(ratingsCount))
}

func (s *PopularityJob) Run() {
	traceID := "job-popularity-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	s.RunOnce(ctx)
}

// RunOnce 处理一轮脏集合，返回成功更新的食谱数
func (s *PopularityJob) RunOnce(ctx context.Context) int {
	// cron 可能重叠触发，同一实例内串行
	if !s.mu.TryLock() {
		log.InfoContext(ctx, "popularity job still running, skip")
		return 0
	}
	defer s.mu.Unlock()

	ids, done, err := s.dirty.Drain(ctx, consts.RecipeDirtyKey)
	if err != nil {
		log.ErrorContext(ctx, "drain recipe dirty set error", "err", err)
		return 0
	}
	if len(ids) == 0 {
		return 0
	}

	recipes, err := s.recipeRepo.GetRecipesByIDs(ctx, ids)
	if err != nil {
		log.ErrorContext(ctx, "load dirty recipes error", "err", err)
		return 0
	}

	// 已删除的食谱不会返回
	if missing := len(ids) - len(recipes); missing > 0 {
		metrics.PopularityRecomputed.WithLabelValues("missing").Add(float64(missing))
	}

	updated := 0
	for _, recipe := range recipes {
		if err := s.recompute(ctx, recipe); err != nil {
			metrics.PopularityRecomputed.WithLabelValues("failed").Inc()
			log.ErrorContext(ctx, "update popularity error", "recipe_id", recipe.ID, "err", err)
			continue
		}
		metrics.PopularityRecomputed.WithLabelValues("updated").Inc()
		updated++
	}

	if err := done(ctx); err != nil {
		log.ErrorContext(ctx, "delete recipe processing set error", "err", err)
	}

	log.InfoContext(ctx, "sync recipe popularity success", "dirty_count", len(ids), "updated", updated)
	return updated
}

func (s *PopularityJob) recompute(ctx context.Context, recipe *model.Recipe) error {
	score := PopularityScore(recipe.RatingAvg, recipe.RatingsCount)
	if score == recipe.PopularityScore {
		return nil
	}
	return s.recipeRepo.UpdatePopularity(ctx, recipe.ID, score)
}
