package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnreachableRedisCache(t *testing.T) *RedisRenderCache {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	c := NewRedisRenderCacheWithClient(client, "")
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisRenderCache_DefaultPrefix(t *testing.T) {
	c := newUnreachableRedisCache(t)
	assert.Equal(t, DefaultRedisKeyPrefix, c.keyPrefix)
	assert.NotNil(t, c.GetClient())

	custom := NewRedisRenderCacheWithClient(c.GetClient(), "test:")
	assert.Equal(t, "test:", custom.keyPrefix)
}

func TestRedisRenderCache_WrapsConnectionErrors(t *testing.T) {
	c := newUnreachableRedisCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "k")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "failed to read cached document")

	err = c.Set(ctx, "k", []byte("x"), time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to cache document")
}

func TestNewRedisRenderCache_Unavailable(t *testing.T) {
	_, err := NewRedisRenderCache(RedisConfig{Host: "127.0.0.1", Port: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
