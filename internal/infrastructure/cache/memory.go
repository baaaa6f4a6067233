package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dealscope/backend/internal/domain"
)

// cacheItem represents a single item in the cache with expiration
type cacheItem struct {
	value      interface{}
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support. It is a
// performance optimization only: contents are lost on restart and every
// cached value must be re-derivable by re-running the underlying fetch.
type MemoryCache struct {
	data       map[string]cacheItem
	mutex      sync.RWMutex
	defaultTTL time.Duration
}

// NewMemoryCache creates a cache whose entries default to defaultTTL when a
// call site passes no override.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	cache := &MemoryCache{
		data:       make(map[string]cacheItem),
		defaultTTL: defaultTTL,
	}

	// Background sweep; reads already treat expired entries as absent.
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a value. An entry past its expiry is treated as absent and
// removed on the spot.
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, domain.ErrCacheMiss
	}
	if time.Now().After(item.expiration) {
		c.mutex.Lock()
		delete(c.data, key)
		c.mutex.Unlock()
		return nil, domain.ErrCacheMiss
	}

	return item.value, nil
}

// Set stores a value. A ttl <= 0 selects the default lifetime.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Clear removes all items regardless of expiry.
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}

// Size returns the current number of stored keys (expired-but-unswept
// entries included; the count is for monitoring, not correctness).
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
