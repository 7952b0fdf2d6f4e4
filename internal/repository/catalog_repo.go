package repository

import (
	"Potluck/internal/model"
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// CatalogRepo 分类与标签目录
type CatalogRepo interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	ListTags(ctx context.Context) ([]*model.Tag, error)
	// SeedCategories / SeedTags 逐条写入，已存在的 ID 跳过，返回实际新增数
	SeedCategories(ctx context.Context, items []*model.Category) (int, error)
	SeedTags(ctx context.Context, items []*model.Tag) (int, error)
}

type catalogRepoImpl struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepo {
	return &catalogRepoImpl{db: db}
}

func (s *catalogRepoImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var items []*model.Category
	result := s.db.WithContext(ctx).
		Order("sort_order asc").
		Order("id asc").
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (s *catalogRepoImpl) ListTags(ctx context.Context) ([]*model.Tag, error) {
	var items []*model.Tag
	result := s.db.WithContext(ctx).
		Order("sort_order asc").
		Order("id asc").
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (s *catalogRepoImpl) SeedCategories(ctx context.Context, items []*model.Category) (int, error) {
	created := 0
	for _, item := range items {
		err := s.db.WithContext(ctx).Create(item).Error
		if isDuplicateError(err) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *catalogRepoImpl) SeedTags(ctx context.Context, items []*model.Tag) (int, error) {
	created := 0
	for _, item := range items {
		err := s.db.WithContext(ctx).Create(item).Error
		if isDuplicateError(err) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
