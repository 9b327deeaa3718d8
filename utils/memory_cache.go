package utils

import (
	"sync"
	"time"
)

type cacheItem struct {
	value      interface{}
	expiration time.Time
}

// MemoryCache is a TTL read cache. Handlers use it as a read-through
// cache over the record store and invalidate entries on every mutation.
type MemoryCache struct {
	items map[string]*cacheItem
	mu    sync.RWMutex
}

// NewMemoryCache creates a cache and starts its expiry sweep.
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{items: make(map[string]*cacheItem)}
	go cache.cleanupLoop()
	return cache
}

// Set stores a value with an expiration.
func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = &cacheItem{value: value, expiration: time.Now().Add(ttl)}
}

// Get retrieves a live value.
func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Now().After(item.expiration) {
		c.Delete(key)
		return nil, false
	}
	return item.value, true
}

// Delete removes an item; used by handlers to invalidate on mutation.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Size returns the number of items, expired included.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *MemoryCache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, item := range c.items {
			if now.After(item.expiration) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
