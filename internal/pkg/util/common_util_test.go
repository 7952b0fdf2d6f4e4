package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISOTime(t *testing.T) {
	t.Parallel()
	ts := time.Date(2025, 2, 3, 4, 5, 6, 789_000_000, time.FixedZone("X", 3*3600))
	assert.Equal(t, "2025-02-03T01:05:06.789Z", ISOTime(ts))

	parsed, err := time.Parse(ISOLayout, ISOTime(time.Time{}))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, 2*time.Second)
}

func TestSplitList(t *testing.T) {
	t.Parallel()
	assert.Nil(t, SplitList("", 30))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b,a ,", 30))
	assert.Equal(t, []string{"a", "b"}, SplitList("a,b,c,d", 2))
}

func TestChunk(t *testing.T) {
	t.Parallel()
	chunks := Chunk([]int{1, 2, 3, 4, 5}, 2)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunks)
	assert.Empty(t, Chunk([]int{}, 3))
}

func TestNormalizeQueryAndContainsAny(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "bolo de cenoura", NormalizeQuery("  Bolo de CENOURA "))
	assert.True(t, ContainsAny([]string{"x", "easy"}, []string{"easy"}))
	assert.False(t, ContainsAny([]string{"x"}, nil))
	assert.Equal(t, []string{"a", "b"}, UniqueStrings([]string{"a", "", "b", "a"}))
}

func TestValidateDTOUsesRequestFieldNames(t *testing.T) {
	t.Parallel()
	type body struct {
		Stars  int    `json:"stars" validate:"min=1,max=5"`
		Status string `form:"status" validate:"omitempty,oneof=published draft"`
	}

	err := ValidateDTO(&body{Stars: 6})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[stars]")
	assert.Contains(t, err.Error(), "[max]")

	err = ValidateDTO(&body{Stars: 3, Status: "archived"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[status]")

	assert.NoError(t, ValidateDTO(&body{Stars: 3}))
}
