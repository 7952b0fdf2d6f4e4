package service

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/model"
	"Potluck/internal/pkg/consts"
	"Potluck/internal/pkg/docstore"
	"Potluck/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

type CommentService interface {
	GetThreads(ctx context.Context, viewerID, recipeID string, limit int, cursor string) (*dto.ListDTO[*dto.CommentDTO], error)
	CreateComment(ctx context.Context, userID, recipeID string, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
}

type commentServiceImpl struct {
	store       docstore.Store
	recipeRepo  repository.RecipeRepo
	commentRepo repository.CommentRepo
	assembler   *Assembler
	publisher   ActivityPublisher
}

func NewCommentService(
	store docstore.Store,
	recipeRepo repository.RecipeRepo,
	commentRepo repository.CommentRepo,
	assembler *Assembler,
	publisher ActivityPublisher,
) CommentService {
	if publisher == nil {
		publisher = NoopActivityPublisher()
	}
	return &commentServiceImpl{
		store:       store,
		recipeRepo:  recipeRepo,
		commentRepo: commentRepo,
		assembler:   assembler,
		publisher:   publisher,
	}
}

// GetThreads 根评论分页，每个根评论下挂完整回复树
func (s *commentServiceImpl) GetThreads(ctx context.Context, viewerID, recipeID string, limit int, cursor string) (*dto.ListDTO[*dto.CommentDTO], error) {
	if err := s.checkRecipe(ctx, viewerID, recipeID); err != nil {
		return nil, err
	}

	page, err := s.commentRepo.PageRootComments(ctx, recipeID, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("load root comments: %w", err)
	}
	replies, err := s.expand(ctx, recipeID, page.Items)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(page.Items)+len(replies))
	for _, c := range page.Items {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	for _, c := range replies {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	authors, err := s.assembler.Authors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	return &dto.ListDTO[*dto.CommentDTO]{
		Items:      buildThreads(page.Items, replies, authors, s.assembler),
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}, nil
}

// expand 逐层查询回复，直到某一层为空
func (s *commentServiceImpl) expand(ctx context.Context, recipeID string, roots []*model.Comment) ([]*model.Comment, error) {
	seen := make(map[string]struct{}, len(roots))
	parents := make([]string, 0, len(roots))
	for _, c := range roots {
		seen[c.ID] = struct{}{}
		parents = append(parents, c.ID)
	}

	all := make([]*model.Comment, 0)
	for len(parents) > 0 {
		level, err := s.commentRepo.FindReplies(ctx, recipeID, parents)
		if err != nil {
			return nil, fmt.Errorf("load replies: %w", err)
		}
		parents = parents[:0]
		for _, c := range level {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			all = append(all, c)
			parents = append(parents, c.ID)
		}
	}
	return all, nil
}

// buildThreads 子节点按创建时间正序，RepliesCount 只统计直接回复
func buildThreads(roots, replies []*model.Comment, authors map[string]*dto.UserDTO, a *Assembler) []*dto.CommentDTO {
	children := make(map[string][]*model.Comment)
	for _, c := range replies {
		if c.ParentID == nil {
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}
	for _, list := range children {
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.Before(list[j].CreatedAt)
			}
			return list[i].ID < list[j].ID
		})
	}

	var build func(c *model.Comment) *dto.CommentDTO
	build = func(c *model.Comment) *dto.CommentDTO {
		node := a.Comment(c, authors[c.AuthorID])
		kids := children[c.ID]
		node.RepliesCount = len(kids)
		for _, child := range kids {
			node.Replies = append(node.Replies, build(child))
		}
		return node
	}

	out := make([]*dto.CommentDTO, 0, len(roots))
	for _, root := range roots {
		out = append(out, build(root))
	}
	return out
}

// CreateComment 回复时父评论必须存在且属于同一食谱
func (s *commentServiceImpl) CreateComment(ctx context.Context, userID, recipeID string, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrParamInvalid
	}
	if err := s.checkRecipe(ctx, userID, recipeID); err != nil {
		return nil, err
	}

	var parentID *string
	if req.ParentID != nil && *req.ParentID != "" {
		parent, err := s.commentRepo.GetComment(ctx, *req.ParentID)
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrInvalidParent
		}
		if err != nil {
			return nil, fmt.Errorf("load parent comment: %w", err)
		}
		if parent.RecipeID != recipeID {
			return nil, ErrInvalidParent
		}
		parentID = &parent.ID
	}

	comment := &model.Comment{
		ID:        s.store.NewID(),
		RecipeID:  recipeID,
		AuthorID:  userID,
		Text:      text,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.publisher.Publish(ctx, model.ActivityEvent{
		Type:       consts.ActivityCommentAdded,
		RecipeID:   recipeID,
		UserID:     userID,
		TargetID:   comment.ID,
		OccurredAt: comment.CreatedAt,
	})

	authors, err := s.assembler.Authors(ctx, []string{userID})
	if err != nil {
		return nil, err
	}
	return s.assembler.Comment(comment, authors[userID]), nil
}

func (s *commentServiceImpl) checkRecipe(ctx context.Context, viewerID, recipeID string) error {
	recipe, err := s.recipeRepo.GetRecipe(ctx, recipeID)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrRecipeNotFound
	}
	if err != nil {
		return fmt.Errorf("load recipe: %w", err)
	}
	if !recipe.VisibleTo(viewerID) {
		return ErrRecipeNotFound
	}
	return nil
}
