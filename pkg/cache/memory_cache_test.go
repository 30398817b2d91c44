package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rankingRow struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16, time.Hour)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	t.Run("miss", func(t *testing.T) {
		var dest []rankingRow
		assert.ErrorIs(t, c.Get(ctx, "ranking", &dest), ErrCacheMiss)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "ranking", []rankingRow{{ID: "a", Score: 90}}, time.Minute))
		var dest []rankingRow
		require.NoError(t, c.Get(ctx, "ranking", &dest))
		assert.Equal(t, []rankingRow{{ID: "a", Score: 90}}, dest)
	})

	t.Run("per key expiration", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		var dest []rankingRow
		assert.ErrorIs(t, c.Get(ctx, "ranking", &dest), ErrCacheMiss)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", 1, 0))
		require.NoError(t, c.Delete(ctx, "k"))
		var dest int
		assert.ErrorIs(t, c.Get(ctx, "k", &dest), ErrCacheMiss)
	})
}
