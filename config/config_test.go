package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "https://hacksnation.com/t/free-coupons", config.ListingURL)
	assert.Equal(t, DefaultUserAgent, config.UserAgent)
	assert.Equal(t, time.Duration(0), config.HTTPTimeout)
	assert.Equal(t, 10*time.Second, config.RenderWait)
	assert.Equal(t, 3*time.Second, config.RenderSettle)
	assert.Equal(t, 5, config.DefaultListingLimit)
	assert.Equal(t, "memory", config.CacheBackend)
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisStreamCount)
	assert.False(t, config.PublishEnabled())
	assert.NoError(t, config.Validate())

	// Test with environment variables
	t.Setenv("LISTING_URL", "https://example.com/t/free")
	t.Setenv("RENDER_SETTLE_SECONDS", "1")
	t.Setenv("DEFAULT_LISTING_LIMIT", "8")
	t.Setenv("CACHE_BACKEND", "memcache")
	t.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")
	t.Setenv("PUBLISH_INTERVAL_SECONDS", "30")
	t.Setenv("PUBLISH_RENDERED", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	config = LoadConfig()
	assert.Equal(t, "https://example.com/t/free", config.ListingURL)
	assert.Equal(t, time.Second, config.RenderSettle)
	assert.Equal(t, 8, config.DefaultListingLimit)
	assert.Equal(t, "memcache", config.CacheBackend)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)
	assert.Equal(t, 30*time.Second, config.PublishInterval)
	assert.True(t, config.PublishRendered)
	assert.True(t, config.PublishEnabled())
	assert.Equal(t, 0, config.RedisDB)
	assert.NoError(t, config.Validate())
}

func TestValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.CacheBackend = "disk"
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.ListingURL = ""
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.RenderWait = 0
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.PublishInterval = time.Minute
	cfg.RedisStreamCount = 0
	assert.Error(t, cfg.Validate())
}
