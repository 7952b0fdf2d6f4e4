package wire

import (
	"Potluck/internal/api/config"
	"Potluck/internal/api/dto"
	"Potluck/internal/pkg/docstore"
	"Potluck/internal/pkg/security"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	t      *testing.T
	router *gin.Engine
	tokens map[string]string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Catalog.CacheTTL = 60
	app, err := BuildApplication(Infrastructure{Store: docstore.NewMemoryStore()}, cfg)
	require.NoError(t, err)
	assert.Nil(t, app.CronMgr)
	assert.Nil(t, app.KafkaManager)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "categories.json"), []byte(`[
		{"id": "dessert", "en": "Dessert", "pt-br": "Sobremesa"},
		{"id": "soup", "en": "Soup", "pt-br": "Sopa"}
	]`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tags.json"), []byte(`[
		{"id": "vegan", "en": "Vegan", "pt-br": "Vegano"}
	]`), 0o600))
	require.NoError(t, app.CatalogService.SeedIfEmpty(context.Background(), dir))

	ta := &testApp{t: t, router: app.Router, tokens: map[string]string{}}
	for _, u := range []struct{ id, name string }{{"u1", "Ana Cook"}, {"u2", "Bruno"}} {
		token, err := security.GenerateToken(u.id, u.name, u.id+"@example.com")
		require.NoError(t, err)
		ta.tokens[u.id] = token
		// 首次访问账户即建档
		env := ta.do(http.MethodGet, "/api/account", u.id, nil)
		require.Equal(t, 200, env.Code, env.Message)
	}
	return ta
}

func (a *testApp) do(method, path, user string, body any) envelope {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+a.tokens[user])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(a.t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	require.Equal(t, 200, env.Code, env.Message)
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestRecipeLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)

	created := decode[dto.RecipeDTO](t, app.do(http.MethodPost, "/api/recipes", "u1", map[string]any{
		"title":       "Chocolate Cake",
		"ingredients": "flour, cocoa",
		"categories":  []string{"dessert"},
		"tags":        []string{"vegan"},
	}))
	assert.Equal(t, "u1", created.AuthorID)
	assert.Equal(t, "flour, cocoa", created.Description)

	feed := decode[dto.ListDTO[*dto.RecipeDTO]](t, app.do(http.MethodGet, "/api/recipes/feed?limit=abc", "", nil))
	require.Len(t, feed.Items, 1)
	require.NotNil(t, feed.Items[0].Author)
	assert.Equal(t, "Ana Cook", feed.Items[0].Author.Name)
	assert.False(t, feed.HasMore)
	assert.Nil(t, feed.NextCursor)

	rated := decode[dto.RateResultDTO](t, app.do(http.MethodPost, "/api/recipes/"+created.ID+"/rate", "u2", map[string]any{"stars": 4}))
	assert.Equal(t, 4.0, rated.RatingAvg)
	assert.Equal(t, int64(1), rated.RatingsCount)

	mine := decode[dto.MyRatingDTO](t, app.do(http.MethodGet, "/api/recipes/"+created.ID+"/rate", "u2", nil))
	require.NotNil(t, mine.Stars)
	assert.Equal(t, 4, *mine.Stars)

	viewed := decode[dto.RecipeDTO](t, app.do(http.MethodGet, "/api/recipes/"+created.ID, "u2", nil))
	require.NotNil(t, viewed.MyRating)
	assert.Equal(t, 4, *viewed.MyRating)

	root := decode[dto.CommentDTO](t, app.do(http.MethodPost, "/api/recipes/"+created.ID+"/comments", "u2", map[string]any{"text": "Looks great"}))
	decode[dto.CommentDTO](t, app.do(http.MethodPost, "/api/recipes/"+created.ID+"/comments", "u1", map[string]any{"text": "Thanks", "parentId": root.ID}))
	threads := decode[dto.ListDTO[*dto.CommentDTO]](t, app.do(http.MethodGet, "/api/recipes/"+created.ID+"/comments", "", nil))
	require.Len(t, threads.Items, 1)
	assert.Equal(t, 1, threads.Items[0].RepliesCount)

	byCategory := decode[dto.ListDTO[*dto.RecipeDTO]](t, app.do(http.MethodGet, "/api/search?categoryIds=dessert,%20,soup&query=CAKE", "", nil))
	assert.Len(t, byCategory.Items, 1)

	empty := decode[dto.ListDTO[*dto.RecipeDTO]](t, app.do(http.MethodGet, "/api/recipes/search", "", nil))
	assert.Empty(t, empty.Items)

	categories := decode[dto.ItemsDTO[dto.CatalogItemDTO]](t, app.do(http.MethodGet, "/api/categories", "", nil))
	assert.Len(t, categories.Items, 2)

	require.Equal(t, 200, app.do(http.MethodDelete, "/api/recipes/"+created.ID, "u1", nil).Code)
	assert.Equal(t, 404, app.do(http.MethodGet, "/api/recipes/"+created.ID, "", nil).Code)
}

func TestSocialFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	recipe := decode[dto.RecipeDTO](t, app.do(http.MethodPost, "/api/recipes", "u1", map[string]any{"title": "Miso Soup"}))

	decode[dto.FollowResultDTO](t, app.do(http.MethodPost, "/api/follow/u1", "u2", nil))
	profile := decode[dto.UserDTO](t, app.do(http.MethodGet, "/api/users/u1/profile", "", nil))
	assert.Equal(t, int64(1), profile.FollowersCount)

	cooks := decode[dto.ItemsDTO[*dto.CookDTO]](t, app.do(http.MethodGet, "/api/cooks/recommended", "u2", nil))
	require.Len(t, cooks.Items, 1)
	assert.Equal(t, "u1", cooks.Items[0].Profile.ID)
	assert.Equal(t, 1, cooks.Items[0].RecipesCount)
	require.NotNil(t, cooks.Items[0].IsFollowing)
	assert.True(t, *cooks.Items[0].IsFollowing)

	fav := decode[dto.FavoriteResultDTO](t, app.do(http.MethodPost, "/api/account/favorites/"+recipe.ID, "u2", nil))
	assert.True(t, fav.Favorited)
	favorites := decode[dto.ItemsDTO[*dto.RecipeDTO]](t, app.do(http.MethodGet, "/api/account/favorites?query=miso", "u2", nil))
	require.Len(t, favorites.Items, 1)

	assert.Equal(t, 400, app.do(http.MethodPost, "/api/follow/u2", "u2", nil).Code)
	require.Equal(t, 200, app.do(http.MethodDelete, "/api/follow/u1", "u2", nil).Code)
	assert.Equal(t, 404, app.do(http.MethodDelete, "/api/follow/u1", "u2", nil).Code)

	require.Equal(t, 200, app.do(http.MethodDelete, "/api/account", "u1", nil).Code)
	assert.Equal(t, 404, app.do(http.MethodGet, "/api/users/u1/profile", "", nil).Code)
}

func TestRequestValidationOverHTTP(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, 401, app.do(http.MethodPost, "/api/recipes", "", map[string]any{"title": "x"}).Code)
	assert.Equal(t, 400, app.do(http.MethodPost, "/api/recipes", "u1", map[string]any{"title": "x", "categories": []string{"nope"}}).Code)
	assert.Equal(t, 400, app.do(http.MethodPost, "/api/recipes", "u1", map[string]any{"title": "x", "status": "archived"}).Code)

	recipe := decode[dto.RecipeDTO](t, app.do(http.MethodPost, "/api/recipes", "u1", map[string]any{"title": "Bread"}))
	assert.Equal(t, 400, app.do(http.MethodPost, "/api/recipes/"+recipe.ID+"/rate", "u2", map[string]any{"stars": 6}).Code)
	assert.Equal(t, 400, app.do(http.MethodPost, "/api/recipes/"+recipe.ID+"/rate", "u2", map[string]any{"stars": "five"}).Code)
	assert.Equal(t, 404, app.do(http.MethodPost, "/api/recipes/missing/rate", "u2", map[string]any{"stars": 3}).Code)
	assert.Equal(t, 403, app.do(http.MethodDelete, "/api/recipes/"+recipe.ID, "u2", nil).Code)
}
