package service

import (
	"Potluck/internal/model"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixResolver string

func (p prefixResolver) PublicURL(ref string) string {
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	return string(p) + ref
}

func TestAssemblerRecipes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "ana", "Ana")
	video := "videos/bolo.mp4"
	r1 := f.addRecipe(t, "r1", "ana", "Bolo", 1, func(r *model.Recipe) {
		r.MediaURLs = []string{"photos/bolo.jpg", "https://cdn.example.com/x.jpg"}
		r.VideoURL = &video
		r.Categories = nil
	})
	r2 := f.addRecipe(t, "r2", "missing-author", "Sopa", 2)
	_, err := f.ratingService().Rate(ctx, "r1", "viewer", 4)
	require.NoError(t, err)

	a := NewAssembler(f.users, f.ratings, prefixResolver("http://minio/potluck/"))
	items, err := a.Recipes(ctx, []*model.Recipe{r1, r2}, "viewer")
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "r1", item.ID)
	assert.Equal(t, "2025-06-01T12:01:00.000Z", item.CreatedAt)
	assert.Equal(t, []string{"http://minio/potluck/photos/bolo.jpg", "https://cdn.example.com/x.jpg"}, item.MediaURLs)
	require.NotNil(t, item.VideoURL)
	assert.Equal(t, "http://minio/potluck/videos/bolo.mp4", *item.VideoURL)
	assert.Equal(t, []string{}, item.Categories)
	require.NotNil(t, item.MyRating)
	assert.Equal(t, 4, *item.MyRating)
	require.NotNil(t, item.Author)
	assert.Equal(t, "Ana", item.Author.Name)

	anonymous, err := a.Recipes(ctx, []*model.Recipe{r1}, "")
	require.NoError(t, err)
	require.Len(t, anonymous, 1)
	assert.Nil(t, anonymous[0].MyRating)
}

func TestAssemblerSingleRecipeKeepsMissingAuthor(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	r := f.addRecipe(t, "r1", "missing-author", "Sopa", 1, withStatus(""))

	item, err := f.assembler.Recipe(context.Background(), r, "")
	require.NoError(t, err)
	assert.Nil(t, item.Author)
	assert.Equal(t, model.RecipeStatusPublished, item.Status)
}

func TestAssemblerUser(t *testing.T) {
	t.Parallel()
	photo := "avatars/ana.png"
	a := NewAssembler(nil, nil, prefixResolver("http://minio/"))
	u := a.User(&model.User{
		ID:             "ana",
		PhotoURL:       &photo,
		FollowersCount: -2,
		FollowingCount: 3,
		CreatedAt:      time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.FixedZone("BRT", -3*3600)),
	})
	assert.Equal(t, int64(0), u.FollowersCount)
	assert.Equal(t, int64(3), u.FollowingCount)
	assert.Equal(t, "2025-01-02T06:04:05.006Z", u.CreatedAt)
	require.NotNil(t, u.PhotoURL)
	assert.Equal(t, "http://minio/avatars/ana.png", *u.PhotoURL)

	// 缺失时间戳按读取时刻补齐
	u = a.User(&model.User{ID: "bia"})
	parsed, err := time.Parse("2006-01-02T15:04:05.000Z", u.CreatedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, time.Minute)
	assert.Nil(t, u.PhotoURL)
}
