package crawler

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"sjsage522/couponfinder/logger"
)

// StaticListingStrategy matches coupon posts in the raw server response
var StaticListingStrategy = ListingStrategy{
	Name: string(ModeStatic),
	Relevant: func(title string) bool {
		return strings.Contains(title, "Udemy Free") ||
			strings.Contains(title, "Udemy Courses") ||
			strings.Contains(strings.ToLower(title), "udemy")
	},
}

// RenderedListingStrategy matches coupon posts in the script-rendered DOM,
// where post titles carry the PostItem-title class
var RenderedListingStrategy = ListingStrategy{
	Name: string(ModeRendered),
	Relevant: func(title string) bool {
		lower := strings.ToLower(title)
		return strings.Contains(lower, "udemy") ||
			strings.Contains(lower, "course") ||
			strings.Contains(lower, "coupon")
	},
	PreferredSelector: "a.PostItem-title",
}

// ListingExtractor finds dated coupon posts on a listing page
type ListingExtractor struct {
	Strategy ListingStrategy
	Fetcher  Fetcher
	URL      string
	// Now supplies the clock used for the current-year filter
	Now func() time.Time
	log *logger.Logger
}

// NewListingExtractor creates a listing extractor for url
func NewListingExtractor(strategy ListingStrategy, fetcher Fetcher, url string) *ListingExtractor {
	return &ListingExtractor{
		Strategy: strategy,
		Fetcher:  fetcher,
		URL:      url,
		Now:      time.Now,
		log:      logger.ForExtractor("listing").WithStrategy(strategy.Name),
	}
}

// GetName returns the extractor's name for logging and identification
func (e *ListingExtractor) GetName() string {
	return "listing/" + e.Strategy.Name
}

// FetchListings acquires the listing page and extracts up to limit records
// (limit <= 0 means all). Fetch and parse failures are logged and yield an
// empty result.
func (e *ListingExtractor) FetchListings(ctx context.Context, limit int) []ListingRecord {
	body, err := e.Fetcher.Fetch(ctx, e.URL)
	if err != nil {
		e.log.Error().Err(err).Str("url", e.URL).Msg("Listing fetch failed")
		return []ListingRecord{}
	}

	doc, err := createDocument(e.Strategy.Name, body)
	if err != nil {
		e.log.Error().Err(err).Str("url", e.URL).Msg("Listing parse failed")
		return []ListingRecord{}
	}

	records := e.Extract(doc, limit)
	e.log.Info().Int("count", len(records)).Msg("Returning listings")
	return records
}

// Extract walks doc and returns ranked listing records
func (e *ListingExtractor) Extract(doc *goquery.Document, limit int) []ListingRecord {
	anchors := e.candidateAnchors(doc)
	currentYear := e.now().Year()

	records := []ListingRecord{}
	anchors.Each(func(_ int, a *goquery.Selection) {
		href, exists := a.Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" {
			return
		}

		title := visibleText(a)
		if !e.Strategy.Relevant(title) {
			return
		}

		record := ListingRecord{Title: title, URL: resolveURL(href)}
		if date, ok := parsePostDate(title); ok {
			if date.Year != currentYear {
				e.log.Debug().Str("title", title).Int("year", date.Year).Msg("Skipping listing outside current year")
				return
			}
			record.PostDate = date
		}
		records = append(records, record)
	})

	e.log.Debug().Int("anchors", anchors.Length()).Int("candidates", len(records)).Msg("Scanned anchors")

	sortByDate(records)

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

func (e *ListingExtractor) candidateAnchors(doc *goquery.Document) *goquery.Selection {
	if e.Strategy.PreferredSelector != "" {
		if preferred := doc.Find(e.Strategy.PreferredSelector); preferred.Length() > 0 {
			return preferred
		}
	}
	return doc.Find("a")
}

func (e *ListingExtractor) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
