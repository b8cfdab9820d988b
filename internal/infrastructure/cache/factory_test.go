package cache

import (
	"testing"

	"github.com/guidebooker/invoice-service/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// unreachableRedis points at a port nothing listens on
var unreachableRedis = config.RedisConfig{Host: "127.0.0.1", Port: 1}

func TestRenderCacheFactory_Disabled(t *testing.T) {
	f := NewRenderCacheFactory(config.CacheConfig{Enabled: false}, unreachableRedis)
	c, err := f.CreateCache()
	require.NoError(t, err)
	assert.IsType(t, NoopRenderCache{}, c)
}

func TestRenderCacheFactory_Memory(t *testing.T) {
	f := NewRenderCacheFactory(config.CacheConfig{Enabled: true, Backend: BackendMemory, MaxEntries: 3}, unreachableRedis)
	c, err := f.CreateCache()
	require.NoError(t, err)
	defer c.Close()

	mem, ok := c.(*InMemoryRenderCache)
	require.True(t, ok)
	assert.Equal(t, 3, mem.maxEntries)
}

func TestRenderCacheFactory_UnknownBackend(t *testing.T) {
	f := NewRenderCacheFactory(config.CacheConfig{Enabled: true, Backend: "memcached"}, unreachableRedis)
	_, err := f.CreateCache()
	assert.Error(t, err)
}

func TestRenderCacheFactory_RedisFallback(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := NewRenderCacheFactory(
		config.CacheConfig{Enabled: true, Backend: BackendRedis},
		unreachableRedis,
		WithLogger(zap.New(core)),
	)

	c, err := f.CreateCache()
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &InMemoryRenderCache{}, c)
	assert.Equal(t, 1, logs.FilterMessage("Redis unavailable, falling back to in-memory render cache").Len())
}

func TestRenderCacheFactory_RedisRequired(t *testing.T) {
	f := NewRenderCacheFactory(
		config.CacheConfig{Enabled: true, Backend: BackendRedis},
		unreachableRedis,
		WithInMemoryFallback(false),
	)

	_, err := f.CreateCache()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis required")
}
