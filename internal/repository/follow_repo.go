package repository

import (
	"Potluck/internal/model"
	"Potluck/internal/pkg/docstore"
	"context"
)

type FollowRepo interface {
	GetFollow(ctx context.Context, followerID, followingID string) (*model.Follow, error)
	GetFollowingIDs(ctx context.Context, followerID string) ([]string, error)
}

type followRepoImpl struct {
	docRepo[model.Follow]
}

func NewFollowRepo(store docstore.Store) FollowRepo {
	return &followRepoImpl{docRepo: newDocRepo[model.Follow](store, model.CollectionFollows)}
}

func (s *followRepoImpl) GetFollow(ctx context.Context, followerID, followingID string) (*model.Follow, error) {
	return s.get(ctx, model.FollowID(followerID, followingID))
}

// GetFollowingIDs 用户关注的全部 ID
func (s *followRepoImpl) GetFollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	follows, err := s.find(ctx, docstore.Query{
		Where: []docstore.Filter{{Field: "follower_id", Value: followerID}},
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowingID)
	}
	return ids, nil
}
