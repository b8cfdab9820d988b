package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RenderCache stores rendered documents keyed by a content hash.
// Rendering is deterministic, so a cached entry is interchangeable with a
// fresh render of the same input.
type RenderCache interface {
	// Get returns the cached bytes and whether the key was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key for ttl; a zero ttl means no expiry
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Close releases any resources held by the cache
	Close() error
}

// Key derives a cache key from the given parts
func Key(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
