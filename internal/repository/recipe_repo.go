package repository

import (
	"Potluck/internal/model"
	"Potluck/internal/pkg/docstore"
	"Potluck/internal/pkg/pagination"
	"context"
)

// 排序键均以 _id 收尾，保证游标续读不重不漏
var (
	FeedOrder = []docstore.Order{
		{Field: "popularity_score", Dir: docstore.Desc},
		{Field: "created_at", Dir: docstore.Desc},
		{Field: docstore.IDField, Dir: docstore.Desc},
	}
	RecentOrder = []docstore.Order{
		{Field: "created_at", Dir: docstore.Desc},
		{Field: docstore.IDField, Dir: docstore.Desc},
	}
)

type RecipeRepo interface {
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	GetRecipesByIDs(ctx context.Context, ids []string) ([]*model.Recipe, error)
	FindRecipes(ctx context.Context, q docstore.Query) ([]*model.Recipe, error)
	FindRecipesAfter(ctx context.Context, q docstore.Query, cursor string, n int) ([]*model.Recipe, error)
	PageRecipes(ctx context.Context, q docstore.Query, cursor string, limit int) (pagination.Page[*model.Recipe], error)
	CreateRecipe(ctx context.Context, recipe *model.Recipe) error
	UpdateRecipe(ctx context.Context, id string, fields map[string]any) error
	DeleteRecipe(ctx context.Context, id string) error
	UpdatePopularity(ctx context.Context, id string, score float64) error
}

type recipeRepoImpl struct {
	docRepo[model.Recipe]
}

func NewRecipeRepo(store docstore.Store) RecipeRepo {
	return &recipeRepoImpl{docRepo: newDocRepo[model.Recipe](store, model.CollectionRecipes)}
}

func recipeID(r *model.Recipe) string { return r.ID }

// GetRecipe 不存在时返回 docstore.ErrNotFound
func (s *recipeRepoImpl) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	return s.get(ctx, id)
}

// GetRecipesByIDs 缺失的 id 被跳过，结果无序
func (s *recipeRepoImpl) GetRecipesByIDs(ctx context.Context, ids []string) ([]*model.Recipe, error) {
	return s.getAll(ctx, ids)
}

func (s *recipeRepoImpl) FindRecipes(ctx context.Context, q docstore.Query) ([]*model.Recipe, error) {
	return s.find(ctx, q)
}

func (s *recipeRepoImpl) FindRecipesAfter(ctx context.Context, q docstore.Query, cursor string, n int) ([]*model.Recipe, error) {
	return s.findAfter(ctx, q, cursor, n)
}

func (s *recipeRepoImpl) PageRecipes(ctx context.Context, q docstore.Query, cursor string, limit int) (pagination.Page[*model.Recipe], error) {
	return s.page(ctx, q, cursor, limit, recipeID)
}

func (s *recipeRepoImpl) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	return s.set(ctx, recipe.ID, recipe)
}

func (s *recipeRepoImpl) UpdateRecipe(ctx context.Context, id string, fields map[string]any) error {
	return s.update(ctx, id, fields)
}

func (s *recipeRepoImpl) DeleteRecipe(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}

func (s *recipeRepoImpl) UpdatePopularity(ctx context.Context, id string, score float64) error {
	return s.update(ctx, id, map[string]any{"popularity_score": score})
}
