package infrastructure

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// TTLCache is a session-scoped in-memory cache. Expiry on read is the only
// eviction; re-fetch after expiry is the only retry behavior in the system.
type TTLCache struct {
	ttl     time.Duration
	mutex   sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *TTLCache) Get(key string) (any, bool) {
	c.mutex.RLock()
	entry, ok := c.entries[key]
	c.mutex.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mutex.Lock()
		delete(c.entries, key)
		c.mutex.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (c *TTLCache) Set(key string, value any) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = cacheEntry{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}
