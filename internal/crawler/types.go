package crawler

import (
	"context"
	"io"

	"github.com/PuerkitoBio/goquery"
)

// PostDate is the date embedded in a listing title. It is present as a
// whole or not at all.
type PostDate struct {
	Day   int    `json:"day"`
	Month string `json:"month"`
	Year  int    `json:"year"`
}

// ListingRecord represents a discovered coupon post
type ListingRecord struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	*PostDate
}

// CourseRecord represents a discovered enrollable course
type CourseRecord struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Fetcher acquires the markup of a page
type Fetcher interface {
	// Fetch returns the page markup as UTF-8
	Fetch(ctx context.Context, url string) (io.Reader, error)

	// GetName returns the fetcher's name for logging and identification
	GetName() string
}

// FetchMode selects how listing pages are acquired
type FetchMode string

const (
	// ModeStatic reads the raw, unexecuted HTTP response
	ModeStatic FetchMode = "static"
	// ModeRendered reads the DOM after client-side script execution
	ModeRendered FetchMode = "rendered"
)

// ParseFetchMode maps a query value onto a FetchMode
func ParseFetchMode(s string) (FetchMode, bool) {
	switch FetchMode(s) {
	case ModeStatic:
		return ModeStatic, true
	case ModeRendered:
		return ModeRendered, true
	}
	return "", false
}

// RelevanceFunc decides whether an anchor's trimmed text names a listing
type RelevanceFunc func(title string) bool

// ListingStrategy describes how listing candidates are located on a page
type ListingStrategy struct {
	Name string
	// Relevant filters anchors by their visible text
	Relevant RelevanceFunc
	// PreferredSelector, when it matches anything, replaces the general
	// anchor set entirely
	PreferredSelector string
}

// courseCandidate is an enrollment link together with the element whose
// text names the course
type courseCandidate struct {
	url       string
	container *goquery.Selection
}

// CourseStrategy locates course candidates in a document
type CourseStrategy struct {
	Name string
	// OnlyIfEmpty runs the strategy only when nothing has been collected yet
	OnlyIfEmpty bool
	Find        func(doc *goquery.Document) []courseCandidate
}
