package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the in-memory cache when no limit is configured
const DefaultMaxEntries = 256

// entry represents a stored document with expiration
type entry struct {
	data      []byte
	expiresAt time.Time
	storedAt  uint64
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// InMemoryRenderCache implements RenderCache using an in-memory map.
// When full, the oldest entry is evicted.
type InMemoryRenderCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	seq        uint64
	stopChan   chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewInMemoryRenderCache creates a new in-memory render cache
// It starts a background goroutine to clean up expired entries
func NewInMemoryRenderCache(maxEntries int) *InMemoryRenderCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c := &InMemoryRenderCache{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		stopChan:   make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns a copy of the cached document
func (c *InMemoryRenderCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || e.expired(time.Now()) {
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

// Set stores a copy of data
func (c *InMemoryRenderCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	c.seq++
	c.entries[key] = entry{
		data:      append([]byte(nil), data...),
		expiresAt: expiresAt,
		storedAt:  c.seq,
	}
	return nil
}

// evictOldest removes the entry stored first; callers hold the write lock
func (c *InMemoryRenderCache) evictOldest() {
	var oldestKey string
	var oldest uint64
	for k, e := range c.entries {
		if oldestKey == "" || e.storedAt < oldest {
			oldestKey = k
			oldest = e.storedAt
		}
	}
	delete(c.entries, oldestKey)
}

// Close stops the cleanup goroutine and releases resources
// Safe to call multiple times
func (c *InMemoryRenderCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryRenderCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries from the cache
func (c *InMemoryRenderCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemoryRenderCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ RenderCache = (*InMemoryRenderCache)(nil)
