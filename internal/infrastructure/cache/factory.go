package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/guidebooker/invoice-service/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Cache backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// RenderCacheFactory creates render caches based on configuration
type RenderCacheFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RenderCacheFactoryOption is a functional option for configuring the factory
type RenderCacheFactoryOption func(*RenderCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RenderCacheFactoryOption {
	return func(f *RenderCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) RenderCacheFactoryOption {
	return func(f *RenderCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRenderCacheFactory creates a new factory
func NewRenderCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...RenderCacheFactoryOption) *RenderCacheFactory {
	f := &RenderCacheFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-based render cache
func (f *RenderCacheFactory) CreateRedisCache() (RenderCache, error) {
	c, err := NewRedisRenderCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis render cache: %w", err)
	}
	return c, nil
}

// CreateInMemoryCache creates an in-memory render cache
// Entries are not shared across process instances
func (f *RenderCacheFactory) CreateInMemoryCache() RenderCache {
	return NewInMemoryRenderCache(f.cacheConfig.MaxEntries)
}

// CreateCache creates the configured render cache. A disabled cache yields
// a NoopRenderCache. A Redis backend falls back to memory when Redis is
// unavailable and fallback is allowed.
func (f *RenderCacheFactory) CreateCache() (RenderCache, error) {
	if !f.cacheConfig.Enabled {
		f.logger.Info("render cache disabled")
		return NoopRenderCache{}, nil
	}

	switch f.cacheConfig.Backend {
	case "", BackendMemory:
		f.logger.Info("using in-memory render cache", zap.Int("max_entries", f.cacheConfig.MaxEntries))
		return f.CreateInMemoryCache(), nil
	case BackendRedis:
	default:
		return nil, fmt.Errorf("unknown cache backend %q", f.cacheConfig.Backend)
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis render cache")
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for render cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory render cache",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}

// NoopRenderCache never stores anything
type NoopRenderCache struct{}

// Get always misses
func (NoopRenderCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data
func (NoopRenderCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Close does nothing
func (NoopRenderCache) Close() error { return nil }

var _ RenderCache = NoopRenderCache{}
