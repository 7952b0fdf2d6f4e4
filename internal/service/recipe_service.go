package service

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/model"
	"Potluck/internal/pkg/docstore"
	"Potluck/internal/pkg/pagination"
	"Potluck/internal/pkg/util"
	"Potluck/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"
)

type RecipeService interface {
	GetFeed(ctx context.Context, viewerID string, limit int, cursor string) (*dto.ListDTO[*dto.RecipeDTO], error)
	Search(ctx context.Context, viewerID string, filters Filters, limit int, cursor string) (*dto.ListDTO[*dto.RecipeDTO], error)
	GetByID(ctx context.Context, viewerID, id string) (*dto.RecipeDTO, error)
	GetByAuthor(ctx context.Context, viewerID, authorID, status string, limit int, cursor string) (*dto.ListDTO[*dto.RecipeDTO], error)
	GetByIDs(ctx context.Context, viewerID string, ids []string, filters Filters, limit int) ([]*dto.RecipeDTO, error)
	Create(ctx context.Context, authorID string, req *dto.RecipeCreateDTO) (*dto.RecipeDTO, error)
	Update(ctx context.Context, userID, id string, req *dto.RecipeUpdateDTO) (*dto.RecipeDTO, error)
	Delete(ctx context.Context, userID, id string) error
	CreateVariation(ctx context.Context, authorID, parentID string, req *dto.RecipeCreateDTO) (*dto.RecipeDTO, error)
}

type recipeServiceImpl struct {
	store      docstore.Store
	recipeRepo repository.RecipeRepo
	catalog    CatalogService
	assembler  *Assembler
	planner    Planner
}

func NewRecipeService(
	store docstore.Store,
	recipeRepo repository.RecipeRepo,
	catalog CatalogService,
	assembler *Assembler,
) RecipeService {
	return &recipeServiceImpl{
		store:      store,
		recipeRepo: recipeRepo,
		catalog:    catalog,
		assembler:  assembler,
	}
}

var publishedOnly = docstore.Filter{Field: "status", Value: model.RecipeStatusPublished}

// GetFeed 首页流，按热度、发布时间倒序
func (s *recipeServiceImpl) GetFeed(ctx context.Context, viewerID string, limit int, cursor string) (*dto.ListDTO[*dto.RecipeDTO], error) {
	page, err := s.recipeRepo.PageRecipes(ctx, docstore.Query{
		Where:   []docstore.Filter{publishedOnly},
		OrderBy: repository.FeedOrder,
	}, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return s.toList(ctx, viewerID, page)
}

// Search 按计划执行过滤搜索，所有过滤路径均按发布时间倒序
func (s *recipeServiceImpl) Search(ctx context.Context, viewerID string, filters Filters, limit int, cursor string) (*dto.ListDTO[*dto.RecipeDTO], error) {
	limit = pagination.ClampLimit(limit)
	strategy := s.planner.Plan(filters)
	log.DebugContext(ctx, "Recipe search planned", "strategy", strategy.Kind.String(), "limit", limit)

	var page pagination.Page[*model.Recipe]
	var err error
	switch strategy.Kind {
	case StrategyEmpty:
		page = pagination.Page[*model.Recipe]{Items: []*model.Recipe{}}
	case StrategyRecentWindow:
		page, err = s.searchRecentWindow(ctx, strategy.Query, limit, cursor)
	default:
		page, err = s.searchMembership(ctx, strategy, limit, cursor)
	}
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	return s.toList(ctx, viewerID, page)
}

// searchMembership 存储执行一个成员过滤，其余条件在内存中完成
func (s *recipeServiceImpl) searchMembership(ctx context.Context, strategy Strategy, limit int, cursor string) (pagination.Page[*model.Recipe], error) {
	recipes, err := s.recipeRepo.FindRecipesAfter(ctx, docstore.Query{
		Where:   []docstore.Filter{publishedOnly},
		In:      strategy.Membership,
		OrderBy: repository.RecentOrder,
	}, cursor, strategy.Fetch(limit))
	if err != nil {
		return pagination.Page[*model.Recipe]{}, err
	}

	matched := make([]*model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if len(strategy.PostTags) > 0 && !util.ContainsAny(r.Tags, strategy.PostTags) {
			continue
		}
		if !titleMatches(r, strategy.Query) {
			continue
		}
		matched = append(matched, r)
	}
	return pagination.Split(matched, limit, recipeKey), nil
}

// searchRecentWindow 只在最近 RecentWindowSize 条已发布食谱中按标题匹配，游标为窗口内位置
func (s *recipeServiceImpl) searchRecentWindow(ctx context.Context, query string, limit int, cursor string) (pagination.Page[*model.Recipe], error) {
	window, err := s.recipeRepo.FindRecipes(ctx, docstore.Query{
		Where:   []docstore.Filter{publishedOnly},
		OrderBy: repository.RecentOrder,
		Limit:   RecentWindowSize,
	})
	if err != nil {
		return pagination.Page[*model.Recipe]{}, err
	}

	matched := make([]*model.Recipe, 0)
	for _, r := range window {
		if titleMatches(r, query) {
			matched = append(matched, r)
		}
	}

	start := 0
	if cursor != "" {
		for i, r := range matched {
			if r.ID == cursor {
				start = i + 1
				break
			}
		}
	}
	if start > len(matched) {
		start = len(matched)
	}
	return pagination.Split(matched[start:], limit, recipeKey), nil
}

func (s *recipeServiceImpl) GetByID(ctx context.Context, viewerID, id string) (*dto.RecipeDTO, error) {
	recipe, err := s.visibleRecipe(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	return s.assembler.Recipe(ctx, recipe, viewerID)
}

// GetByAuthor 作者主页，草稿只对作者本人可见，其他人请求草稿得到空列表
func (s *recipeServiceImpl) GetByAuthor(ctx context.Context, viewerID, authorID, status string, limit int, cursor string) (*dto.ListDTO[*dto.RecipeDTO], error) {
	if status == "" {
		status = model.RecipeStatusPublished
	}
	if status == model.RecipeStatusDraft && viewerID != authorID {
		return &dto.ListDTO[*dto.RecipeDTO]{Items: []*dto.RecipeDTO{}}, nil
	}
	page, err := s.recipeRepo.PageRecipes(ctx, docstore.Query{
		Where: []docstore.Filter{
			{Field: "author_id", Value: authorID},
			{Field: "status", Value: status},
		},
		OrderBy: repository.RecentOrder,
	}, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("load author recipes: %w", err)
	}
	return s.toList(ctx, viewerID, page)
}

// GetByIDs 保持 ids 顺序，不存在或不可见的食谱被省略，可选按标题、分类、标签过滤并截断
func (s *recipeServiceImpl) GetByIDs(ctx context.Context, viewerID string, ids []string, filters Filters, limit int) ([]*dto.RecipeDTO, error) {
	ids = util.UniqueStrings(ids)
	if len(ids) == 0 {
		return []*dto.RecipeDTO{}, nil
	}
	recipes, err := s.recipeRepo.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	byID := make(map[string]*model.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	query := util.NormalizeQuery(filters.Query)
	ordered := make([]*model.Recipe, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok || !r.VisibleTo(viewerID) {
			continue
		}
		if !titleMatches(r, query) {
			continue
		}
		if len(filters.CategoryIDs) > 0 && !util.ContainsAny(r.Categories, filters.CategoryIDs) {
			continue
		}
		if len(filters.TagIDs) > 0 && !util.ContainsAny(r.Tags, filters.TagIDs) {
			continue
		}
		ordered = append(ordered, r)
		if limit > 0 && len(ordered) == limit {
			break
		}
	}

	items := make([]*dto.RecipeDTO, 0, len(ordered))
	for _, r := range ordered {
		item, err := s.assembler.Recipe(ctx, r, viewerID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *recipeServiceImpl) Create(ctx context.Context, authorID string, req *dto.RecipeCreateDTO) (*dto.RecipeDTO, error) {
	recipe, err := s.newRecipe(ctx, authorID, req)
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		recipe.Status = req.Status
	}
	if err = s.recipeRepo.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return s.assembler.Recipe(ctx, recipe, authorID)
}

// CreateVariation 基于已发布食谱创建变体，变体总是直接发布
func (s *recipeServiceImpl) CreateVariation(ctx context.Context, authorID, parentID string, req *dto.RecipeCreateDTO) (*dto.RecipeDTO, error) {
	parent, err := s.visibleRecipe(ctx, authorID, parentID)
	if err != nil {
		return nil, err
	}
	if parent.IsDraft() {
		return nil, ErrVariationOfDraft
	}

	recipe, err := s.newRecipe(ctx, authorID, req)
	if err != nil {
		return nil, err
	}
	recipe.IsVariation = true
	recipe.ParentRecipeID = util.PtrString(parentID)
	if err = s.recipeRepo.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create variation: %w", err)
	}
	return s.assembler.Recipe(ctx, recipe, authorID)
}

func (s *recipeServiceImpl) Update(ctx context.Context, userID, id string, req *dto.RecipeUpdateDTO) (*dto.RecipeDTO, error) {
	recipe, err := s.ownedRecipe(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Categories != nil {
		if err = s.catalog.ValidateCategoryIDs(ctx, *req.Categories); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		if err = s.catalog.ValidateTagIDs(ctx, *req.Tags); err != nil {
			return nil, err
		}
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
		fields["title_lower"] = util.NormalizeQuery(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Ingredients != nil {
		fields["ingredients"] = *req.Ingredients
	}
	if req.PreparationSteps != nil {
		fields["preparation_steps"] = *req.PreparationSteps
	}
	if req.MediaURLs != nil {
		fields["media_urls"] = *req.MediaURLs
	}
	if req.VideoURL != nil {
		fields["video_url"] = *req.VideoURL
	}
	if req.Categories != nil {
		fields["categories"] = *req.Categories
	}
	if req.Tags != nil {
		fields["tags"] = *req.Tags
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if len(fields) > 0 {
		fields["updated_at"] = time.Now()
		if err = s.recipeRepo.UpdateRecipe(ctx, recipe.ID, fields); err != nil {
			return nil, fmt.Errorf("update recipe: %w", err)
		}
	}
	return s.GetByID(ctx, userID, id)
}

func (s *recipeServiceImpl) Delete(ctx context.Context, userID, id string) error {
	recipe, err := s.ownedRecipe(ctx, userID, id)
	if err != nil {
		return err
	}
	if err = s.recipeRepo.DeleteRecipe(ctx, recipe.ID); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

func (s *recipeServiceImpl) newRecipe(ctx context.Context, authorID string, req *dto.RecipeCreateDTO) (*model.Recipe, error) {
	if err := s.catalog.ValidateCategoryIDs(ctx, req.Categories); err != nil {
		return nil, err
	}
	if err := s.catalog.ValidateTagIDs(ctx, req.Tags); err != nil {
		return nil, err
	}

	now := time.Now()
	recipe := &model.Recipe{
		ID:               s.store.NewID(),
		AuthorID:         authorID,
		Title:            req.Title,
		TitleLower:       util.NormalizeQuery(req.Title),
		Ingredients:      req.Ingredients,
		PreparationSteps: req.PreparationSteps,
		MediaURLs:        nonNil(req.MediaURLs),
		VideoURL:         req.VideoURL,
		Categories:       nonNil(req.Categories),
		Tags:             nonNil(req.Tags),
		Status:           model.RecipeStatusPublished,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	} else {
		recipe.Description = joinNonEmpty("\n\n", req.Ingredients, req.PreparationSteps)
	}
	return recipe, nil
}

// visibleRecipe 不存在与他人草稿对调用方不可区分
func (s *recipeServiceImpl) visibleRecipe(ctx context.Context, viewerID, id string) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.GetRecipe(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if !recipe.VisibleTo(viewerID) {
		return nil, ErrRecipeNotFound
	}
	return recipe, nil
}

func (s *recipeServiceImpl) ownedRecipe(ctx context.Context, userID, id string) (*model.Recipe, error) {
	recipe, err := s.visibleRecipe(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrForbidden
	}
	return recipe, nil
}

func (s *recipeServiceImpl) toList(ctx context.Context, viewerID string, page pagination.Page[*model.Recipe]) (*dto.ListDTO[*dto.RecipeDTO], error) {
	items, err := s.assembler.Recipes(ctx, page.Items, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.ListDTO[*dto.RecipeDTO]{Items: items, NextCursor: page.NextCursor, HasMore: page.HasMore}, nil
}

func recipeKey(r *model.Recipe) string { return r.ID }

func titleMatches(r *model.Recipe, query string) bool {
	if query == "" {
		return true
	}
	title := r.TitleLower
	if title == "" {
		title = strings.ToLower(r.Title)
	}
	return strings.Contains(title, query)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func joinNonEmpty(sep string, parts ...*string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != nil && *p != "" {
			out = append(out, *p)
		}
	}
	return strings.Join(out, sep)
}
