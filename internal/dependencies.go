package internal

import (
	"context"

	"sjsage522/couponfinder/config"
	"sjsage522/couponfinder/internal/crawler"
	"sjsage522/couponfinder/logger"
	"sjsage522/couponfinder/services/cache"
	"sjsage522/couponfinder/services/publisher"
)

const localCacheSize = 10000

// Dependencies holds all service dependencies
type Dependencies struct {
	Service   *crawler.Service
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// NewDependencies wires the services described by cfg. Publisher is nil
// unless publishing is enabled.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{
		Service: crawler.NewServiceFromConfig(cfg),
		Cache:   newCache(cfg),
	}

	if !cfg.PublishEnabled() {
		return deps, nil
	}

	redisPublisher := publisher.NewRedisPublisher(
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	if err := redisPublisher.Ping(ctx); err != nil {
		redisPublisher.Close()
		return nil, err
	}
	deps.Publisher = redisPublisher

	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	return deps, nil
}

func newCache(cfg *config.Config) cache.CacheService {
	if cfg.CacheBackend == "memcache" {
		logger.Info("Using Memcache at %s", cfg.MemcacheAddr)
		return cache.NewMemcacheService(cfg.MemcacheAddr)
	}
	return cache.NewLocalCache(localCacheSize, cfg.SeenTTL)
}

// Close releases held connections
func (d *Dependencies) Close() {
	if d.Publisher != nil {
		d.Publisher.Close()
	}
}
