package logger

import (
	"Potluck/internal/pkg/consts"
	"bytes"
	"context"
	"errors"
	log "log/slog"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestContextHandlerInjectsTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	l.InfoContext(WithTraceID(context.Background(), "trace-1"), "hello")
	l.With("component", "test").InfoContext(context.Background(), "no trace")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "trace-1", lines[0]["trace_id"])
	_, ok := lines[1]["trace_id"]
	assert.False(t, ok)
	assert.Equal(t, "test", lines[1]["component"])
}

func TestContextHandlerInjectsUserID(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	ctx := context.WithValue(WithTraceID(context.Background(), "t-9"), consts.UserIDKey, "u1")
	l.InfoContext(ctx, "rated")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "u1", lines[0]["user_id"])
	assert.Equal(t, "t-9", TraceIDFrom(ctx))
}

func TestRemoteFilterOnlyForwardsTracedRecords(t *testing.T) {
	var local, remote bytes.Buffer
	h := NewTeeHandler(
		log.NewJSONHandler(&local, nil),
		NewRemoteFilterHandler(log.NewJSONHandler(&remote, nil), log.LevelWarn),
	)
	l := log.New(&ContextHandler{h})

	l.InfoContext(context.Background(), "local only")
	l.InfoContext(WithTraceID(context.Background(), "abc"), "shipped")
	l.WarnContext(context.Background(), "cache unavailable")

	assert.Len(t, decodeLines(t, &local), 3)
	shipped := decodeLines(t, &remote)
	require.Len(t, shipped, 2)
	assert.Equal(t, "shipped", shipped[0]["msg"])
	assert.Equal(t, "cache unavailable", shipped[1]["msg"])
}

type failingHandler struct{ log.Handler }

func (failingHandler) Handle(context.Context, log.Record) error { return errors.New("remote gone") }

func TestTeeHandlerKeepsLocalWhenRemoteFails(t *testing.T) {
	var local bytes.Buffer
	h := NewTeeHandler(
		log.NewJSONHandler(&local, nil),
		failingHandler{log.NewJSONHandler(&bytes.Buffer{}, nil)},
		log.NewJSONHandler(&bytes.Buffer{}, &log.HandlerOptions{Level: log.LevelError}),
	)

	r := log.NewRecord(time.Now(), log.LevelInfo, "hello", 0)
	err := h.Handle(context.Background(), r)
	assert.EqualError(t, err, "remote gone")
	assert.Len(t, decodeLines(t, &local), 1)

	assert.False(t, h.Enabled(context.Background(), log.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), log.LevelInfo))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, log.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, log.LevelInfo, ParseLevel(""))
	assert.Equal(t, log.LevelInfo, ParseLevel("verbose"))
}
