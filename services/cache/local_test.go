package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var _ CacheService = (*LocalCache)(nil)
var _ CacheService = (*MemcacheService)(nil)

func TestLocalCache(t *testing.T) {
	c := NewLocalCache(16, time.Hour)

	_, err := c.Get("missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, c.Set("seen:https://hacksnation.com/t/a", []byte("1"), time.Minute))
	value, err := c.Get("seen:https://hacksnation.com/t/a")
	assert.NoError(t, err)
	assert.Equal(t, "1", string(value))

	assert.NoError(t, c.Delete("seen:https://hacksnation.com/t/a"))
	_, err = c.Get("seen:https://hacksnation.com/t/a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestLocalCachePerEntryExpiration(t *testing.T) {
	c := NewLocalCache(16, time.Hour)
	now := time.Date(2025, time.April, 12, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	assert.NoError(t, c.Set("k", []byte("v"), time.Minute))
	_, err := c.Get("k")
	assert.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.Get("k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestLocalCacheEvictsOldest(t *testing.T) {
	c := NewLocalCache(2, time.Hour)

	c.Set("a", []byte("1"), 0)
	c.Set("b", []byte("2"), 0)
	c.Set("c", []byte("3"), 0)

	_, err := c.Get("a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	value, err := c.Get("c")
	assert.NoError(t, err)
	assert.Equal(t, "3", string(value))
}
