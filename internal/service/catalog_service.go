package service

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/model"
	"Potluck/internal/pkg/consts"
	"Potluck/internal/pkg/metrics"
	"Potluck/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

const (
	catalogKindCategory = "category"
	catalogKindTag      = "tag"
)

type CatalogService interface {
	Categories(ctx context.Context) ([]dto.CatalogItemDTO, error)
	Tags(ctx context.Context) ([]dto.CatalogItemDTO, error)
	ValidateCategoryIDs(ctx context.Context, ids []string) error
	ValidateTagIDs(ctx context.Context, ids []string) error
	SeedIfEmpty(ctx context.Context, dir string) error
}

type catalogServiceImpl struct {
	repo  repository.CatalogRepo
	cache Cache
	ttl   time.Duration
}

// NewCatalogService cache 为 nil 时每次直接读库
func NewCatalogService(repo repository.CatalogRepo, cache Cache, ttl time.Duration) CatalogService {
	return &catalogServiceImpl{repo: repo, cache: cache, ttl: ttl}
}

func (s *catalogServiceImpl) Categories(ctx context.Context) ([]dto.CatalogItemDTO, error) {
	return s.cached(ctx, catalogKindCategory, consts.CatalogCategoryKey, func(ctx context.Context) ([]dto.CatalogItemDTO, error) {
		items, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.CatalogItemDTO, 0, len(items))
		for _, item := range items {
			out = append(out, dto.CatalogItemDTO{ID: item.ID, Labels: item.Labels})
		}
		return out, nil
	})
}

func (s *catalogServiceImpl) Tags(ctx context.Context) ([]dto.CatalogItemDTO, error) {
	return s.cached(ctx, catalogKindTag, consts.CatalogTagKey, func(ctx context.Context) ([]dto.CatalogItemDTO, error) {
		items, err := s.repo.ListTags(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.CatalogItemDTO, 0, len(items))
		for _, item := range items {
			out = append(out, dto.CatalogItemDTO{ID: item.ID, Labels: item.Labels})
		}
		return out, nil
	})
}

func (s *catalogServiceImpl) ValidateCategoryIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	items, err := s.Categories(ctx)
	if err != nil {
		return err
	}
	if !containsAll(items, ids) {
		return ErrInvalidCategory
	}
	return nil
}

func (s *catalogServiceImpl) ValidateTagIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	items, err := s.Tags(ctx)
	if err != nil {
		return err
	}
	if !containsAll(items, ids) {
		return ErrInvalidTag
	}
	return nil
}

// SeedIfEmpty 目录为空时从 dir 下的 categories.json / tags.json 导入
func (s *catalogServiceImpl) SeedIfEmpty(ctx context.Context, dir string) error {
	if dir == "" {
		return nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		items, err := readCatalogFile(filepath.Join(dir, "categories.json"))
		if err != nil {
			return err
		}
		rows := make([]*model.Category, 0, len(items))
		for i, item := range items {
			rows = append(rows, &model.Category{ID: item.ID, Labels: item.Labels, SortOrder: i, CreatedAt: time.Now()})
		}
		n, err := s.repo.SeedCategories(ctx, rows)
		if err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		log.InfoContext(ctx, "Catalog categories seeded", "count", n)
	}

	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		items, err := readCatalogFile(filepath.Join(dir, "tags.json"))
		if err != nil {
			return err
		}
		rows := make([]*model.Tag, 0, len(items))
		for i, item := range items {
			rows = append(rows, &model.Tag{ID: item.ID, Labels: item.Labels, SortOrder: i, CreatedAt: time.Now()})
		}
		n, err := s.repo.SeedTags(ctx, rows)
		if err != nil {
			return fmt.Errorf("seed tags: %w", err)
		}
		log.InfoContext(ctx, "Catalog tags seeded", "count", n)
	}

	s.invalidate(ctx)
	return nil
}

func (s *catalogServiceImpl) cached(
	ctx context.Context,
	kind, key string,
	load func(ctx context.Context) ([]dto.CatalogItemDTO, error),
) ([]dto.CatalogItemDTO, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		if err == nil && raw != "" {
			var items []dto.CatalogItemDTO
			if err = json.Unmarshal([]byte(raw), &items); err == nil {
				metrics.CatalogCacheHits.WithLabelValues(kind, "hit").Inc()
				return items, nil
			}
			log.WarnContext(ctx, "Catalog cache entry unreadable", "key", key, "err", err)
		}
		metrics.CatalogCacheHits.WithLabelValues(kind, "miss").Inc()
	}

	items, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", kind, err)
	}

	if s.cache != nil && len(items) > 0 {
		raw, err := json.Marshal(items)
		if err == nil {
			err = s.cache.Set(ctx, key, string(raw), s.ttl)
		}
		if err != nil {
			log.WarnContext(ctx, "Catalog cache write failed", "key", key, "err", err)
		}
	}
	return items, nil
}

func (s *catalogServiceImpl) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, consts.CatalogCategoryKey, consts.CatalogTagKey); err != nil {
		log.WarnContext(ctx, "Catalog cache invalidation failed", "err", err)
	}
}

func readCatalogFile(path string) ([]dto.CatalogItemDTO, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog seed %s: %w", path, err)
	}
	var items []dto.CatalogItemDTO
	if err = json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse catalog seed %s: %w", path, err)
	}
	return items, nil
}

func containsAll(items []dto.CatalogItemDTO, ids []string) bool {
	known := make(map[string]struct{}, len(items))
	for _, item := range items {
		known[item.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return false
		}
	}
	return true
}
