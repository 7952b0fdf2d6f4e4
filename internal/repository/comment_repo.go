package repository

import (
	"Potluck/internal/model"
	"Potluck/internal/pkg/docstore"
	"Potluck/internal/pkg/pagination"
	"Potluck/internal/pkg/util"
	"context"
)

// ReplyChunkSize 按父评论展开时每次查询的父 ID 个数上限
const ReplyChunkSize = docstore.MaxMembershipValues

type CommentRepo interface {
	GetComment(ctx context.Context, id string) (*model.Comment, error)
	PageRootComments(ctx context.Context, recipeID, cursor string, limit int) (pagination.Page[*model.Comment], error)
	FindReplies(ctx context.Context, recipeID string, parentIDs []string) ([]*model.Comment, error)
	CreateComment(ctx context.Context, comment *model.Comment) error
}

type commentRepoImpl struct {
	docRepo[model.Comment]
}

func NewCommentRepo(store docstore.Store) CommentRepo {
	return &commentRepoImpl{docRepo: newDocRepo[model.Comment](store, model.CollectionComments)}
}

func commentID(c *model.Comment) string { return c.ID }

func (s *commentRepoImpl) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	return s.get(ctx, id)
}

// PageRootComments 根评论按创建时间倒序分页
func (s *commentRepoImpl) PageRootComments(ctx context.Context, recipeID, cursor string, limit int) (pagination.Page[*model.Comment], error) {
	q := docstore.Query{
		Where: []docstore.Filter{
			{Field: "recipe_id", Value: recipeID},
			{Field: "parent_id", Value: nil},
		},
		OrderBy: RecentOrder,
	}
	return s.page(ctx, q, cursor, limit, commentID)
}

// FindReplies 查询一组父评论的直接回复，父 ID 按成员过滤上限分批
func (s *commentRepoImpl) FindReplies(ctx context.Context, recipeID string, parentIDs []string) ([]*model.Comment, error) {
	out := make([]*model.Comment, 0)
	for _, chunk := range util.Chunk(parentIDs, ReplyChunkSize) {
		replies, err := s.find(ctx, docstore.Query{
			Where: []docstore.Filter{{Field: "recipe_id", Value: recipeID}},
			In:    &docstore.Membership{Field: "parent_id", Values: docstore.InValues(chunk)},
		})
		if err != nil {
			return nil, err
		}
		out = append(out, replies...)
	}
	return out, nil
}

func (s *commentRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.set(ctx, comment.ID, comment)
}
