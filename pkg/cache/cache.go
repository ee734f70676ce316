// Package cache provides the in-memory TTL cache used for Honeycomb
// metadata listings (datasets, columns). Metadata changes rarely relative
// to how often tools list it, so a short TTL cuts most upstream round trips.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a TTL-bounded in-memory cache with fetch-through deduplication.
// Concurrent GetOrFetch calls for the same key share a single upstream fetch.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	group   singleflight.Group
}

type entry struct {
	value     any
	expiresAt time.Time
}

// New creates a cache with the given TTL. A non-positive TTL disables
// caching entirely: every GetOrFetch goes upstream.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
}

// Get retrieves a value from the cache. Returns (nil, false) on miss or expiry.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		// Expired - clean up lazily
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores a value under key for the cache's TTL.
func (c *Cache) Set(key string, value any) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = &entry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Delete removes a value from the cache. Idempotent - no error on miss.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// GetOrFetch returns the cached value for key, or invokes fetch to populate
// it. Concurrent callers for the same key are collapsed into one fetch.
// Fetch errors are never cached.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under singleflight: a concurrent caller may have
		// populated the entry while this call was queued.
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, fetched)
		return fetched, nil
	})
	return v, err
}
