package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glowcart/backend/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCacheWithClient(client, "test:")
	t.Cleanup(func() { cache.Close() })

	return cache, mr
}

func TestRedisCache_SetAndGet(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	err := cache.Set(ctx, "catalog:all", []byte(`[{"id":1}]`), time.Minute)
	require.NoError(t, err)

	got, err := cache.Get(ctx, "catalog:all")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))

	// Keys are namespaced with the prefix
	assert.True(t, mr.Exists("test:catalog:all"))
}

func TestRedisCache_Miss(t *testing.T) {
	cache, _ := newTestRedisCache(t)

	_, err := cache.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Expiry(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, err := cache.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_DeleteAndExists(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))

	exists, err := cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, "k"))

	exists, err = cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisCache_Unavailable(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "k")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

func TestNewRedisCache(t *testing.T) {
	t.Run("connects to running server", func(t *testing.T) {
		mr := miniredis.RunT(t)

		cache, err := NewRedisCache(context.Background(), "redis://"+mr.Addr())
		require.NoError(t, err)
		defer cache.Close()

		assert.Equal(t, defaultKeyPrefix, cache.prefix)
	})

	t.Run("rejects malformed url", func(t *testing.T) {
		_, err := NewRedisCache(context.Background(), "not a url")
		assert.Error(t, err)
	})
}
