package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces rendered invoices in Redis
const DefaultRedisKeyPrefix = "invoice:pdf:"

// RedisRenderCache implements RenderCache using Redis.
// Multiple service instances can share rendered documents through it.
type RedisRenderCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRenderCache creates a new Redis-based render cache
func NewRedisRenderCache(cfg RedisConfig) (*RedisRenderCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRenderCache{
		client:    client,
		keyPrefix: DefaultRedisKeyPrefix,
	}, nil
}

// NewRedisRenderCacheWithClient creates a cache with an existing Redis client
func NewRedisRenderCacheWithClient(client *redis.Client, keyPrefix string) *RedisRenderCache {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisKeyPrefix
	}
	return &RedisRenderCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get fetches a rendered document
func (c *RedisRenderCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached document: %w", err)
	}
	return data, true, nil
}

// Set stores a rendered document with a TTL
func (c *RedisRenderCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache document: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisRenderCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisRenderCache) GetClient() *redis.Client {
	return c.client
}

var _ RenderCache = (*RedisRenderCache)(nil)
