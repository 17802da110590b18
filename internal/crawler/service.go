package crawler

import (
	"context"

	"sjsage522/couponfinder/config"
	"sjsage522/couponfinder/logger"
)

// ListingSource is what callers need from the listing side of the service
type ListingSource interface {
	RecentListings(ctx context.Context, limit int, mode FetchMode) []ListingRecord
}

// CourseSource is what callers need from the course side of the service
type CourseSource interface {
	ExtractCourses(ctx context.Context, url string) []CourseRecord
}

// Service is the entry point used by the HTTP API and the worker
type Service struct {
	static   *ListingExtractor
	rendered *ListingExtractor
	courses  *CourseExtractor
	log      *logger.Logger
}

// NewService wires the extractors from explicit fetchers
func NewService(listingURL string, static, rendered Fetcher) *Service {
	return &Service{
		static:   NewListingExtractor(StaticListingStrategy, static, listingURL),
		rendered: NewListingExtractor(RenderedListingStrategy, rendered, listingURL),
		courses:  NewCourseExtractor(static),
		log:      logger.ForExtractor("service"),
	}
}

// NewServiceFromConfig builds the static and rendered fetchers from cfg
func NewServiceFromConfig(cfg *config.Config) *Service {
	static := NewStaticFetcher(cfg.UserAgent, cfg.HTTPTimeout)
	rendered := NewRenderedFetcher(cfg.UserAgent, cfg.ChromeAddr, cfg.RenderWait, cfg.RenderSettle)
	return NewService(cfg.ListingURL, static, rendered)
}

// RecentListings returns the newest listings. The rendered mode retries
// with the static strategy when rendering fails or finds nothing.
func (s *Service) RecentListings(ctx context.Context, limit int, mode FetchMode) []ListingRecord {
	if mode != ModeRendered {
		return s.static.FetchListings(ctx, limit)
	}

	records := s.rendered.FetchListings(ctx, limit)
	if len(records) > 0 {
		return records
	}

	s.log.Info().Msg("No listings from rendered page, retrying with static fetch")
	return s.static.FetchListings(ctx, limit)
}

// ExtractCourses returns the courses listed on url
func (s *Service) ExtractCourses(ctx context.Context, url string) []CourseRecord {
	return s.courses.FetchCourses(ctx, url)
}
