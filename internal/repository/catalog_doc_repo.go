package repository

import (
	"Potluck/internal/model"
	"Potluck/internal/pkg/docstore"
	"context"
	"errors"
	"sort"
)

// docCatalogRepo 未配置关系库时，目录存放在文档库的 categories / tags 集合
type docCatalogRepo struct {
	categories docRepo[model.Category]
	tags       docRepo[model.Tag]
}

func NewDocCatalogRepo(store docstore.Store) CatalogRepo {
	return &docCatalogRepo{
		categories: newDocRepo[model.Category](store, model.CollectionCategories),
		tags:       newDocRepo[model.Tag](store, model.CollectionTags),
	}
}

func (s *docCatalogRepo) ListCategories(ctx context.Context) ([]*model.Category, error) {
	items, err := s.categories.find(ctx, docstore.Query{})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return catalogLess(items[i].SortOrder, items[j].SortOrder, items[i].ID, items[j].ID)
	})
	return items, nil
}

func (s *docCatalogRepo) ListTags(ctx context.Context) ([]*model.Tag, error) {
	items, err := s.tags.find(ctx, docstore.Query{})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return catalogLess(items[i].SortOrder, items[j].SortOrder, items[i].ID, items[j].ID)
	})
	return items, nil
}

func (s *docCatalogRepo) SeedCategories(ctx context.Context, items []*model.Category) (int, error) {
	created := 0
	for _, item := range items {
		_, err := s.categories.get(ctx, item.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, docstore.ErrNotFound) {
			return created, err
		}
		if err = s.categories.set(ctx, item.ID, item); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *docCatalogRepo) SeedTags(ctx context.Context, items []*model.Tag) (int, error) {
	created := 0
	for _, item := range items {
		_, err := s.tags.get(ctx, item.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, docstore.ErrNotFound) {
			return created, err
		}
		if err = s.tags.set(ctx, item.ID, item); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func catalogLess(orderA, orderB int, idA, idB string) bool {
	if orderA != orderB {
		return orderA < orderB
	}
	return idA < idB
}
