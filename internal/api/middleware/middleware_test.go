package middleware

import (
	"Potluck/internal/pkg/consts"
	"Potluck/internal/pkg/security"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revokedSet map[string]string

func (r revokedSet) Get(_ context.Context, key string) (string, error) {
	return r[key], nil
}

type envelope struct {
	Code int    `json:"code"`
	Data string `json:"data"`
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 200, "data": c.GetString(consts.UserIDKey) + "|" + c.GetString(consts.UserNameKey)})
	})
	r.GET("/whoami", handlers...)
	return r
}

func call(t *testing.T, r *gin.Engine, token string) envelope {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAuthMiddleware(t *testing.T) {
	token, err := security.GenerateToken("u1", "Ana", "ana@example.com")
	require.NoError(t, err)
	sig, err := security.ExtractSignature(token)
	require.NoError(t, err)

	r := newEngine(AuthMiddleware(revokedSet{}))
	assert.Equal(t, "u1|Ana", call(t, r, token).Data)
	assert.Equal(t, 401, call(t, r, "").Code)
	assert.Equal(t, 401, call(t, r, "garbage").Code)

	revoked := newEngine(AuthMiddleware(revokedSet{consts.RevokedTokenKey + sig: "1"}))
	assert.Equal(t, 401, call(t, revoked, token).Code)
}

func TestAuthOptionalMiddleware(t *testing.T) {
	token, err := security.GenerateToken("u2", "Bo", "")
	require.NoError(t, err)

	r := newEngine(AuthOptionalMiddleware())
	assert.Equal(t, "u2|Bo", call(t, r, token).Data)
	assert.Equal(t, "|", call(t, r, "").Data)
	assert.Equal(t, "|", call(t, r, "broken.token.value").Data)
}

func TestTraceMiddlewareEchoesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware(), MetricsMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Trace-ID", "trace-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "trace-1", w.Header().Get("X-Trace-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

func TestTraceMiddlewareReplacesUnsafeID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Trace-ID", "bad id\nwith newline")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	got := w.Header().Get("X-Trace-ID")
	assert.NotEqual(t, "bad id\nwith newline", got)
	assert.Len(t, got, 36)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	preflight := func(r *gin.Engine, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	open := gin.New()
	open.Use(CORSMiddleware(nil))
	w := preflight(open, "http://anywhere.test")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://anywhere.test", w.Header().Get("Access-Control-Allow-Origin"))

	locked := gin.New()
	locked.Use(CORSMiddleware([]string{"https://potluck.test/"}))
	assert.Equal(t, "https://potluck.test", preflight(locked, "https://potluck.test").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, preflight(locked, "https://evil.test").Header().Get("Access-Control-Allow-Origin"))
}
