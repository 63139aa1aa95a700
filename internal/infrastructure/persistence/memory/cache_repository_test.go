package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cellarmind/v1/internal/ports/outbound"
)

func TestCacheSetGet(t *testing.T) {
	cache := NewCacheRepository(zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte(`{"body": 4}`), time.Hour))

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"body": 4}`, string(got))
}

func TestCacheMiss(t *testing.T) {
	cache := NewCacheRepository(zaptest.NewLogger(t))
	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCacheRepository(zaptest.NewLogger(t))
	ctx := context.Background()

	base := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	now := base
	cache.SetClock(func() time.Time { return now })

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 24*time.Hour))

	// Just inside the TTL: still a hit.
	now = base.Add(24*time.Hour - time.Minute)
	_, err := cache.Get(ctx, "k")
	assert.NoError(t, err)

	// Just past the TTL: a miss, and the entry is evicted.
	now = base.Add(24*time.Hour + time.Minute)
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	assert.Equal(t, 0, cache.Len())
}

func TestCacheRejectsEmptyValues(t *testing.T) {
	cache := NewCacheRepository(zaptest.NewLogger(t))
	ctx := context.Background()

	for _, value := range [][]byte{nil, []byte(""), []byte("null"), []byte("{}"), []byte("[]")} {
		require.NoError(t, cache.Set(ctx, "k", value, time.Hour))
		_, err := cache.Get(ctx, "k")
		assert.ErrorIs(t, err, outbound.ErrCacheMiss, "value %q must not be cached", value)
	}
	assert.Equal(t, 0, cache.Len())
}

func TestCacheDelete(t *testing.T) {
	cache := NewCacheRepository(zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, cache.Delete(ctx, "k"))

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
}

func TestCacheOverwrite(t *testing.T) {
	cache := NewCacheRepository(zaptest.NewLogger(t))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("old"), time.Hour))
	require.NoError(t, cache.Set(ctx, "k", []byte("new"), time.Hour))

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
	assert.Equal(t, 1, cache.Len())
}
