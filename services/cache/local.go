package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type localEntry struct {
	value     []byte
	expiresAt time.Time
}

// LocalCache implements CacheService in process with a bounded LRU.
// Entries expire after their own expiration or the cache-wide ttl,
// whichever comes first.
type LocalCache struct {
	lru *expirable.LRU[string, localEntry]
	now func() time.Time
}

// NewLocalCache creates a local cache holding at most size entries
func NewLocalCache(size int, ttl time.Duration) *LocalCache {
	return &LocalCache{
		lru: expirable.NewLRU[string, localEntry](size, nil, ttl),
		now: time.Now,
	}
}

// Get retrieves a value from the cache
func (c *LocalCache) Get(key string) ([]byte, error) {
	entry, ok := c.lru.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.lru.Remove(key)
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a value; a non-positive expiration defers to the cache ttl
func (c *LocalCache) Set(key string, value []byte, expiration time.Duration) error {
	entry := localEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = c.now().Add(expiration)
	}
	c.lru.Add(key, entry)
	return nil
}

// Delete removes a value from the cache
func (c *LocalCache) Delete(key string) error {
	c.lru.Remove(key)
	return nil
}
