package repository

import (
	"Potluck/internal/model"
	"Potluck/internal/pkg/docstore"
	"context"
)

type UserRepo interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, id string, fields map[string]any) error
}

type userRepoImpl struct {
	docRepo[model.User]
}

func NewUserRepo(store docstore.Store) UserRepo {
	return &userRepoImpl{docRepo: newDocRepo[model.User](store, model.CollectionUsers)}
}

func (s *userRepoImpl) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.get(ctx, id)
}

func (s *userRepoImpl) GetUsersByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	return s.getAll(ctx, ids)
}

func (s *userRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return s.set(ctx, user.ID, user)
}

func (s *userRepoImpl) UpdateUser(ctx context.Context, id string, fields map[string]any) error {
	return s.update(ctx, id, fields)
}
