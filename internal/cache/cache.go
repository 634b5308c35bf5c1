// Package cache provides a small TTL read cache for report responses.
// Staleness is acceptable for reads; writers never invalidate explicitly.
package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache wraps a ristretto cache with a fixed TTL per entry.
type Cache struct {
	inner *ristretto.Cache
	ttl   time.Duration
}

// New creates a cache holding up to maxEntries values with the given TTL.
func New(maxEntries int64, ttl time.Duration) (*Cache, error) {
	inner, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10, // number of keys to track frequency of
		MaxCost:     maxEntries,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner, ttl: ttl}, nil
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	return c.inner.Get(key)
}

// Set stores value under key with the cache's TTL. Writes are best-effort;
// ristretto may drop entries under pressure.
func (c *Cache) Set(key string, value interface{}) {
	c.inner.SetWithTTL(key, value, 1, c.ttl)
}

// Close releases the cache's resources.
func (c *Cache) Close() {
	c.inner.Close()
}
