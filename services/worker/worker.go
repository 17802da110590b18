package worker

import (
	"context"
	"encoding/json"
	"time"

	"sjsage522/couponfinder/internal/crawler"
	"sjsage522/couponfinder/logger"
	"sjsage522/couponfinder/services/cache"
	"sjsage522/couponfinder/services/publisher"
)

const (
	seenKeyPrefix = "seen:"
	messageKey    = "listing"
)

// Options configures a Worker
type Options struct {
	Interval time.Duration
	Limit    int
	Mode     crawler.FetchMode
	SeenTTL  time.Duration
}

// Worker periodically extracts recent listings and publishes the ones it
// has not published before
type Worker struct {
	listings  crawler.ListingSource
	publisher publisher.Publisher
	cache     cache.CacheService
	opts      Options
	log       *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(
	listings crawler.ListingSource,
	pub publisher.Publisher,
	cacheSvc cache.CacheService,
	opts Options,
) *Worker {
	return &Worker{
		listings:  listings,
		publisher: pub,
		cache:     cacheSvc,
		opts:      opts,
		log:       logger.ForWorker(),
	}
}

// Start runs one pass immediately and then one per interval until ctx is done
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		start := time.Now()
		published := w.RunOnce(ctx)
		w.log.Info().
			Int("published", published).
			Dur("elapsed", time.Since(start)).
			Msg("Publish pass finished")

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce extracts listings, publishes unseen ones and trims the streams.
// It returns the number of listings published.
func (w *Worker) RunOnce(ctx context.Context) int {
	records := w.listings.RecentListings(ctx, w.opts.Limit, w.opts.Mode)

	published := 0
	for _, record := range records {
		if w.publishListing(ctx, record) {
			published++
		}
	}

	if err := w.publisher.TrimStreams(ctx); err != nil {
		w.log.Error().Err(err).Msg("Stream trimming failed")
	}

	return published
}

func (w *Worker) publishListing(ctx context.Context, record crawler.ListingRecord) bool {
	key := seenKeyPrefix + record.URL
	if _, err := w.cache.Get(key); err == nil {
		return false
	}

	data, err := json.Marshal(record)
	if err != nil {
		w.log.Error().Err(err).Str("url", record.URL).Msg("Listing encoding failed")
		return false
	}

	if err := w.publisher.Publish(ctx, messageKey, data); err != nil {
		w.log.Error().Err(err).Str("url", record.URL).Msg("Listing publish failed")
		return false
	}

	if err := w.cache.Set(key, []byte(time.Now().Format(time.RFC3339)), w.opts.SeenTTL); err != nil {
		w.log.Warn().Err(err).Str("url", record.URL).Msg("Failed to mark listing as seen")
	}

	w.log.Debug().Str("title", record.Title).Msg("Published listing")
	return true
}
