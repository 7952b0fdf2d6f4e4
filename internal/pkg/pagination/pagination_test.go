package pagination

import (
	"Potluck/internal/pkg/docstore"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID        string    `bson:"_id"`
	Score     float64   `bson:"score"`
	CreatedAt time.Time `bson:"created_at"`
}

func rowID(r row) string { return r.ID }

var order = []docstore.Order{
	{Field: "score", Dir: docstore.Desc},
	{Field: "created_at", Dir: docstore.Desc},
	{Field: docstore.IDField, Dir: docstore.Desc},
}

func TestClampLimit(t *testing.T) {
	t.Parallel()
	cases := map[int]int{-3: DefaultLimit, 0: DefaultLimit, 1: 1, 20: 20, 50: 50, 51: MaxLimit, 1000: MaxLimit}
	for in, want := range cases {
		assert.Equal(t, want, ClampLimit(in), "limit %d", in)
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()
	rows := []row{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	p := Split(rows, 2, rowID)
	assert.True(t, p.HasMore)
	require.NotNil(t, p.NextCursor)
	assert.Equal(t, "b", *p.NextCursor)
	assert.Len(t, p.Items, 2)

	p = Split(rows, 3, rowID)
	assert.False(t, p.HasMore)
	assert.Nil(t, p.NextCursor)
	assert.Len(t, p.Items, 3)
}

func seedRows(t *testing.T, store docstore.Store, n int) []string {
	t.Helper()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	ops := make([]docstore.Op, 0, n)
	for i := 0; i < n; i++ {
		// 大量重复的 score/created_at，只能靠 _id 区分
		r := row{
			Score:     float64(i % 3),
			CreatedAt: base.Add(time.Duration(i%4) * time.Minute),
		}
		ops = append(ops, docstore.Op{Kind: docstore.OpSet, Collection: "rows", ID: fmt.Sprintf("r%03d", i), Doc: r})
	}
	require.NoError(t, store.Commit(context.Background(), ops))

	var all []row
	require.NoError(t, store.Find(context.Background(), docstore.Query{Collection: "rows", OrderBy: order}, &all))
	out := make([]string, len(all))
	for i, r := range all {
		out[i] = r.ID
	}
	return out
}

func TestFindPageWalksWithoutGapsOrRepeats(t *testing.T) {
	t.Parallel()
	store := docstore.NewMemoryStore()
	want := seedRows(t, store, 47)
	codec := NewCodec(store)
	ctx := context.Background()

	var got []string
	cursor := ""
	pages := 0
	for {
		page, err := FindPage[row](ctx, codec, docstore.Query{Collection: "rows", OrderBy: order}, cursor, 10, rowID)
		require.NoError(t, err)
		for _, r := range page.Items {
			got = append(got, r.ID)
		}
		pages++
		if !page.HasMore {
			assert.Nil(t, page.NextCursor)
			break
		}
		cursor = *page.NextCursor
		require.Less(t, pages, 10)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 5, pages)
}

func TestFindPageUnknownCursorRestarts(t *testing.T) {
	t.Parallel()
	store := docstore.NewMemoryStore()
	want := seedRows(t, store, 5)

	page, err := FindPage[row](context.Background(), NewCodec(store), docstore.Query{Collection: "rows", OrderBy: order}, "deleted-id", 3, rowID)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, want[0], page.Items[0].ID)
	assert.True(t, page.HasMore)
}

func TestFindPageClampsLimit(t *testing.T) {
	t.Parallel()
	store := docstore.NewMemoryStore()
	seedRows(t, store, 60)

	page, err := FindPage[row](context.Background(), NewCodec(store), docstore.Query{Collection: "rows", OrderBy: order}, "", 500, rowID)
	require.NoError(t, err)
	assert.Len(t, page.Items, MaxLimit)
	assert.True(t, page.HasMore)

	page, err = FindPage[row](context.Background(), NewCodec(store), docstore.Query{Collection: "rows", OrderBy: order}, "", 0, rowID)
	require.NoError(t, err)
	assert.Len(t, page.Items, DefaultLimit)
}

func TestDecodeReturnsSortTuple(t *testing.T) {
	t.Parallel()
	store := docstore.NewMemoryStore()
	seedRows(t, store, 3)

	tuple, err := NewCodec(store).Decode(context.Background(), "rows", "r001", order)
	require.NoError(t, err)
	require.Len(t, tuple, 3)
	assert.Equal(t, 1.0, tuple[0])
	assert.Equal(t, "r001", tuple[2])

	tuple, err = NewCodec(store).Decode(context.Background(), "rows", "", order)
	require.NoError(t, err)
	assert.Nil(t, tuple)
}
