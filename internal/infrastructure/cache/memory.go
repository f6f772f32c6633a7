package cache

import (
	"context"
	"sync"
	"time"

	"github.com/anshumaan69/tenderflow/internal/domain"
)

// DefaultMaxEntries bounds the in-memory embedding memo
const DefaultMaxEntries = 10000

// cacheItem represents a single vector in the cache with expiration
type cacheItem struct {
	Vector     []float32
	Expiration time.Time
}

// MemoryCache is a thread-safe, bounded in-memory embedding cache with TTL support
type MemoryCache struct {
	data       map[string]cacheItem
	mutex      sync.RWMutex
	maxEntries int
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewMemoryCache creates a new in-memory cache holding at most maxEntries vectors
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	cache := &MemoryCache{
		data:       make(map[string]cacheItem),
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
	}

	// Start cleanup goroutine to remove expired entries every 10 minutes
	go cache.cleanupExpired(10 * time.Minute)

	return cache
}

// Get retrieves a vector from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]float32, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if time.Now().After(item.Expiration) {
		return nil, domain.ErrCacheMiss
	}

	return copyVector(item.Vector), nil
}

// Set stores a vector in the cache with TTL, evicting the oldest entry when full
func (c *MemoryCache) Set(ctx context.Context, key string, vector []float32, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxEntries {
		c.evictOldest()
	}

	c.data[key] = cacheItem{
		Vector:     copyVector(vector),
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a vector from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Size returns the current number of items in the cache
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

// evictOldest removes the entry with the earliest expiration. Caller holds the lock.
func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range c.data {
		if oldestKey == "" || item.Expiration.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.Expiration
		}
	}

	if oldestKey != "" {
		delete(c.data, oldestKey)
	}
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, item := range c.data {
		if now.After(item.Expiration) {
			delete(c.data, key)
		}
	}
}

func copyVector(v []float32) []float32 {
	if v == nil {
		return nil
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
