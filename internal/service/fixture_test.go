package service

import (
	"Potluck/internal/model"
	"Potluck/internal/pkg/docstore"
	"Potluck/internal/repository"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store     *docstore.MemoryStore
	recipes   repository.RecipeRepo
	ratings   repository.RatingRepo
	comments  repository.CommentRepo
	users     repository.UserRepo
	follows   repository.FollowRepo
	catalog   CatalogService
	assembler *Assembler
	publisher *recordingPublisher
	locker    *memoryLocker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	f := &fixture{
		store:     store,
		recipes:   repository.NewRecipeRepo(store),
		ratings:   repository.NewRatingRepo(store),
		comments:  repository.NewCommentRepo(store),
		users:     repository.NewUserRepo(store),
		follows:   repository.NewFollowRepo(store),
		publisher: &recordingPublisher{},
		locker:    newMemoryLocker(),
	}
	f.catalog = NewCatalogService(repository.NewDocCatalogRepo(store), newMemoryCache(), time.Minute)
	f.assembler = NewAssembler(f.users, f.ratings, nil)

	ctx := context.Background()
	_, err := repository.NewDocCatalogRepo(store).SeedCategories(ctx, []*model.Category{
		{ID: "dessert", Labels: model.LocalizedLabels{"en": "Dessert"}, SortOrder: 0},
		{ID: "main", Labels: model.LocalizedLabels{"en": "Main"}, SortOrder: 1},
		{ID: "soup", Labels: model.LocalizedLabels{"en": "Soup"}, SortOrder: 2},
	})
	require.NoError(t, err)
	_, err = repository.NewDocCatalogRepo(store).SeedTags(ctx, []*model.Tag{
		{ID: "vegan", Labels: model.LocalizedLabels{"en": "Vegan"}, SortOrder: 0},
		{ID: "quick", Labels: model.LocalizedLabels{"en": "Quick"}, SortOrder: 1},
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) recipeService() RecipeService {
	return NewRecipeService(f.store, f.recipes, f.catalog, f.assembler)
}

func (f *fixture) ratingService() RatingService {
	return NewRatingService(f.store, f.recipes, f.ratings, f.publisher)
}

func (f *fixture) commentService() CommentService {
	return NewCommentService(f.store, f.recipes, f.comments, f.assembler, f.publisher)
}

func (f *fixture) cookService() CookService {
	return NewCookService(f.recipes, f.users, f.follows, f.assembler)
}

func (f *fixture) socialService() SocialService {
	return NewSocialService(f.store, f.users, f.follows, f.recipes, f.recipeService(), f.assembler, f.locker, f.publisher)
}

func (f *fixture) addUser(t *testing.T, id, name string) *model.User {
	t.Helper()
	u := &model.User{ID: id, Name: name, Email: id + "@example.com", FavoriteRecipeIDs: []string{}, CreatedAt: baseTime}
	require.NoError(t, f.users.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) deleteUser(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.users.UpdateUser(context.Background(), id, map[string]any{"deleted_at": baseTime}))
}

// addRecipe 以 minute 为偏移设置创建时间，数值越大越新
func (f *fixture) addRecipe(t *testing.T, id, authorID, title string, minute int, mutate ...func(r *model.Recipe)) *model.Recipe {
	t.Helper()
	r := &model.Recipe{
		ID:         id,
		AuthorID:   authorID,
		Title:      title,
		TitleLower: strings.ToLower(title),
		MediaURLs:  []string{},
		Categories: []string{},
		Tags:       []string{},
		Status:     model.RecipeStatusPublished,
		CreatedAt:  baseTime.Add(time.Duration(minute) * time.Minute),
	}
	for _, m := range mutate {
		m(r)
	}
	require.NoError(t, f.recipes.CreateRecipe(context.Background(), r))
	return r
}

func (f *fixture) addComment(t *testing.T, id, recipeID, authorID string, parentID *string, minute int) {
	t.Helper()
	require.NoError(t, f.comments.CreateComment(context.Background(), &model.Comment{
		ID:        id,
		RecipeID:  recipeID,
		AuthorID:  authorID,
		Text:      "comment " + id,
		ParentID:  parentID,
		CreatedAt: baseTime.Add(time.Duration(minute) * time.Minute),
	}))
}

func withStatus(status string) func(r *model.Recipe) {
	return func(r *model.Recipe) { r.Status = status }
}

func withCategories(ids ...string) func(r *model.Recipe) {
	return func(r *model.Recipe) { r.Categories = ids }
}

func withTags(ids ...string) func(r *model.Recipe) {
	return func(r *model.Recipe) { r.Tags = ids }
}

func withPopularity(score float64) func(r *model.Recipe) {
	return func(r *model.Recipe) { r.PopularityScore = score }
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.ActivityEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event model.ActivityEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
	gets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.data[key], nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type memoryLocker struct {
	mu    sync.Mutex
	held  map[string]string
	locks int
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{held: make(map[string]string)}
}

func (l *memoryLocker) TryLock(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = value
	l.locks++
	return true, nil
}

func (l *memoryLocker) UnLock(_ context.Context, key, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == value {
		delete(l.held, key)
	}
}
