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
	log "log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// followLockTTL 同一对关注关系的防重复提交窗口
const followLockTTL = 5 * time.Second

// Identity 来自 Token 的调用者身份，首次访问账户时用于建档
type Identity struct {
	UserID string
	Name   string
	Email  string
}

type SocialService interface {
	GetAccount(ctx context.Context, identity Identity) (*dto.UserDTO, error)
	GetProfile(ctx context.Context, userID string) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.AccountUpdateDTO) (*dto.UserDTO, error)
	DeleteAccount(ctx context.Context, userID string) error
	Follow(ctx context.Context, followerID, followingID string) (*dto.FollowResultDTO, error)
	Unfollow(ctx context.Context, followerID, followingID string) error
	AddFavorite(ctx context.Context, userID, recipeID string) (*dto.FavoriteResultDTO, error)
	RemoveFavorite(ctx context.Context, userID, recipeID string) (*dto.FavoriteResultDTO, error)
	GetFavorites(ctx context.Context, userID string, filters Filters, limit int) (*dto.ItemsDTO[*dto.RecipeDTO], error)
}

type socialServiceImpl struct {
	store         docstore.Store
	userRepo      repository.UserRepo
	followRepo    repository.FollowRepo
	recipeRepo    repository.RecipeRepo
	recipeService RecipeService
	assembler     *Assembler
	locker        Locker
	publisher     ActivityPublisher
}

// NewSocialService locker 为 nil 时不做重复提交保护
func NewSocialService(
	store docstore.Store,
	userRepo repository.UserRepo,
	followRepo repository.FollowRepo,
	recipeRepo repository.RecipeRepo,
	recipeService RecipeService,
	assembler *Assembler,
	locker Locker,
	publisher ActivityPublisher,
) SocialService {
	if publisher == nil {
		publisher = NoopActivityPublisher()
	}
	return &socialServiceImpl{
		store:         store,
		userRepo:      userRepo,
		followRepo:    followRepo,
		recipeRepo:    recipeRepo,
		recipeService: recipeService,
		assembler:     assembler,
		locker:        locker,
		publisher:     publisher,
	}
}

// GetAccount 已注销返回 NotFound，资料不存在时按 Token 身份建档
func (s *socialServiceImpl) GetAccount(ctx context.Context, identity Identity) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUser(ctx, identity.UserID)
	if err == nil {
		if user.IsDeleted() {
			return nil, ErrUserNotFound
		}
		return s.assembler.User(user), nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("load account: %w", err)
	}

	user = &model.User{
		ID:                identity.UserID,
		Name:              identity.Name,
		Email:             identity.Email,
		FavoriteRecipeIDs: []string{},
		CreatedAt:         time.Now(),
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	log.InfoContext(ctx, "Account provisioned", "user_id", identity.UserID)
	return s.assembler.User(user), nil
}

func (s *socialServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.UserDTO, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.assembler.User(user), nil
}

func (s *socialServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.AccountUpdateDTO) (*dto.UserDTO, error) {
	if _, err := s.activeUser(ctx, userID); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrParamInvalid
		}
		fields["name"] = name
	}
	if req.PhotoURL != nil {
		fields["photo_url"] = *req.PhotoURL
	}
	if len(fields) > 0 {
		if err := s.userRepo.UpdateUser(ctx, userID, fields); err != nil {
			return nil, fmt.Errorf("update account: %w", err)
		}
	}
	return s.GetProfile(ctx, userID)
}

// DeleteAccount 软删除，资料不存在时视为成功
func (s *socialServiceImpl) DeleteAccount(ctx context.Context, userID string) error {
	err := s.userRepo.UpdateUser(ctx, userID, map[string]any{"deleted_at": time.Now()})
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// Follow 幂等，关注行与双方计数在同一批次内写入
func (s *socialServiceImpl) Follow(ctx context.Context, followerID, followingID string) (*dto.FollowResultDTO, error) {
	if followerID == followingID {
		return nil, ErrFollowSelf
	}
	if _, err := s.activeUser(ctx, followingID); err != nil {
		return nil, err
	}
	if _, err := s.activeUser(ctx, followerID); err != nil {
		return nil, err
	}

	unlock, err := s.lockPair(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := &dto.FollowResultDTO{FollowerID: followerID, FollowingID: followingID, Success: true}
	_, err = s.followRepo.GetFollow(ctx, followerID, followingID)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("load follow: %w", err)
	}

	follow := &model.Follow{
		ID:          model.FollowID(followerID, followingID),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}
	err = s.store.Commit(ctx, []docstore.Op{
		{Kind: docstore.OpSet, Collection: model.CollectionFollows, ID: follow.ID, Doc: follow},
		{Kind: docstore.OpUpdate, Collection: model.CollectionUsers, ID: followerID, Inc: map[string]any{"following_count": 1}},
		{Kind: docstore.OpUpdate, Collection: model.CollectionUsers, ID: followingID, Inc: map[string]any{"followers_count": 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("commit follow: %w", err)
	}

	s.publisher.Publish(ctx, model.ActivityEvent{
		Type:       consts.ActivityUserFollowed,
		UserID:     followerID,
		TargetID:   followingID,
		OccurredAt: follow.CreatedAt,
	})
	return result, nil
}

func (s *socialServiceImpl) Unfollow(ctx context.Context, followerID, followingID string) error {
	unlock, err := s.lockPair(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	defer unlock()

	follow, err := s.followRepo.GetFollow(ctx, followerID, followingID)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFollowing
	}
	if err != nil {
		return fmt.Errorf("load follow: %w", err)
	}

	// 计数可能因历史数据出现负值，读取时由 Assembler 截断为 0
	err = s.store.Commit(ctx, []docstore.Op{
		{Kind: docstore.OpDelete, Collection: model.CollectionFollows, ID: follow.ID},
		{Kind: docstore.OpUpdate, Collection: model.CollectionUsers, ID: followerID, Inc: map[string]any{"following_count": -1}},
		{Kind: docstore.OpUpdate, Collection: model.CollectionUsers, ID: followingID, Inc: map[string]any{"followers_count": -1}},
	})
	if err != nil {
		return fmt.Errorf("commit unfollow: %w", err)
	}
	return nil
}

func (s *socialServiceImpl) AddFavorite(ctx context.Context, userID, recipeID string) (*dto.FavoriteResultDTO, error) {
	recipe, err := s.recipeRepo.GetRecipe(ctx, recipeID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if !recipe.VisibleTo(userID) {
		return nil, ErrRecipeNotFound
	}

	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := &dto.FavoriteResultDTO{RecipeID: recipeID, Favorited: true}
	if slices.Contains(user.FavoriteRecipeIDs, recipeID) {
		return result, nil
	}

	favorites := append(nonNil(user.FavoriteRecipeIDs), recipeID)
	if err = s.userRepo.UpdateUser(ctx, userID, map[string]any{"favorite_recipe_ids": favorites}); err != nil {
		return nil, fmt.Errorf("update favorites: %w", err)
	}
	return result, nil
}

func (s *socialServiceImpl) RemoveFavorite(ctx context.Context, userID, recipeID string) (*dto.FavoriteResultDTO, error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := &dto.FavoriteResultDTO{RecipeID: recipeID, Favorited: false}

	favorites := make([]string, 0, len(user.FavoriteRecipeIDs))
	for _, id := range user.FavoriteRecipeIDs {
		if id != "" && id != recipeID {
			favorites = append(favorites, id)
		}
	}
	if len(favorites) == len(user.FavoriteRecipeIDs) {
		return result, nil
	}
	if err = s.userRepo.UpdateUser(ctx, userID, map[string]any{"favorite_recipe_ids": favorites}); err != nil {
		return nil, fmt.Errorf("update favorites: %w", err)
	}
	return result, nil
}

// GetFavorites 保持收藏顺序，已删除或不可见的食谱直接略过
func (s *socialServiceImpl) GetFavorites(ctx context.Context, userID string, filters Filters, limit int) (*dto.ItemsDTO[*dto.RecipeDTO], error) {
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.recipeService.GetByIDs(ctx, userID, user.FavoriteRecipeIDs, filters, limit)
	if err != nil {
		return nil, err
	}
	return &dto.ItemsDTO[*dto.RecipeDTO]{Items: items}, nil
}

func (s *socialServiceImpl) activeUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetUser(ctx, userID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.IsDeleted() {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// lockPair 同一对用户的关注/取关串行化，抢锁失败视为重复提交
func (s *socialServiceImpl) lockPair(ctx context.Context, followerID, followingID string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	key := consts.FollowLock + followerID + ":" + followingID
	value := uuid.NewString()
	ok, err := s.locker.TryLock(ctx, key, value, followLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire follow lock: %w", err)
	}
	if !ok {
		return nil, ErrActionDuplicate
	}
	return func() { s.locker.UnLock(context.WithoutCancel(ctx), key, value) }, nil
}
