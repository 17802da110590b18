package crawler

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"sjsage522/couponfinder/pkg/errors"
)

// mockFetcher serves canned markup or a canned error and counts calls
type mockFetcher struct {
	name  string
	html  string
	err   error
	calls int
	urls  []string
}

var _ Fetcher = (*mockFetcher)(nil)

func (m *mockFetcher) Fetch(ctx context.Context, url string) (io.Reader, error) {
	m.calls++
	m.urls = append(m.urls, url)
	if m.err != nil {
		return nil, m.err
	}
	return strings.NewReader(m.html), nil
}

func (m *mockFetcher) GetName() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func failingFetcher(name string) *mockFetcher {
	return &mockFetcher{
		name: name,
		err:  errors.NewNetwork(name, "fetch https://hacksnation.com/t/free-coupons", io.ErrUnexpectedEOF),
	}
}

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
}

func mustDocument(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		panic(err)
	}
	return doc
}
