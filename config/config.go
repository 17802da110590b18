package config

import (
	"os"
	"strconv"
	"time"

	"sjsage522/couponfinder/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Source site
	ListingURL string
	UserAgent  string

	// Static fetch; zero means no client timeout
	HTTPTimeout time.Duration

	// Rendered fetch
	ChromeAddr   string
	RenderWait   time.Duration
	RenderSettle time.Duration

	// HTTP API
	APIAddr             string
	DefaultListingLimit int

	// Cache configuration
	CacheBackend string
	MemcacheAddr string
	SeenTTL      time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Worker configuration
	PublishInterval time.Duration
	PublishRendered bool

	// Environment
	Environment string
}

// DefaultUserAgent is sent on every static request and by the headless browser
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		ListingURL:           getEnv("LISTING_URL", "https://hacksnation.com/t/free-coupons"),
		UserAgent:            getEnv("USER_AGENT", DefaultUserAgent),
		HTTPTimeout:          getSeconds("HTTP_TIMEOUT_SECONDS", 0),
		ChromeAddr:           getEnv("CHROME_ADDR", ""),
		RenderWait:           getSeconds("RENDER_WAIT_SECONDS", 10),
		RenderSettle:         getSeconds("RENDER_SETTLE_SECONDS", 3),
		APIAddr:              getEnv("API_ADDR", ":5000"),
		DefaultListingLimit:  getInt("DEFAULT_LISTING_LIMIT", 5),
		CacheBackend:         getEnv("CACHE_BACKEND", "memory"),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		SeenTTL:              getSeconds("SEEN_TTL_SECONDS", 7*24*60*60),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              getInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "coupons"),
		RedisStreamCount:     getInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getInt("REDIS_STREAM_MAX_LENGTH", 1000),
		PublishInterval:      getSeconds("PUBLISH_INTERVAL_SECONDS", 0),
		PublishRendered:      getEnv("PUBLISH_RENDERED", "false") == "true",
		Environment:          getEnv("COUPON_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the services cannot run with
func (c *Config) Validate() error {
	if c.ListingURL == "" {
		return errors.NewConfiguration("LISTING_URL must not be empty", nil)
	}
	if c.DefaultListingLimit < 0 {
		return errors.NewConfiguration("DEFAULT_LISTING_LIMIT must not be negative", nil)
	}
	if c.RenderWait <= 0 {
		return errors.NewConfiguration("RENDER_WAIT_SECONDS must be positive", nil)
	}
	if c.RenderSettle < 0 {
		return errors.NewConfiguration("RENDER_SETTLE_SECONDS must not be negative", nil)
	}
	switch c.CacheBackend {
	case "memory", "memcache":
	default:
		return errors.NewConfiguration("CACHE_BACKEND must be memory or memcache, got "+c.CacheBackend, nil)
	}
	if c.PublishInterval > 0 && c.RedisStreamCount <= 0 {
		return errors.NewConfiguration("REDIS_STREAM_COUNT must be positive when publishing", nil)
	}
	return nil
}

// PublishEnabled reports whether the listing worker should run
func (c *Config) PublishEnabled() bool {
	return c.PublishInterval > 0
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

func getSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getInt(key, defaultValue)) * time.Second
}
