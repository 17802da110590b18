package crawler

import (
	"context"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"sjsage522/couponfinder/helpers"
	"sjsage522/couponfinder/pkg/errors"
)

// StaticFetcher retrieves raw markup with a plain HTTP GET
type StaticFetcher struct {
	client *resty.Client
}

// NewStaticFetcher creates a static fetcher sending the given User-Agent.
// A zero timeout leaves requests bounded only by the caller's context.
func NewStaticFetcher(userAgent string, timeout time.Duration) *StaticFetcher {
	return &StaticFetcher{client: helpers.NewHTTPClient(userAgent, timeout)}
}

// GetName returns the fetcher name
func (f *StaticFetcher) GetName() string {
	return string(ModeStatic)
}

// Fetch performs the GET and converts the body to UTF-8
func (f *StaticFetcher) Fetch(ctx context.Context, url string) (io.Reader, error) {
	body, err := helpers.FetchHTML(ctx, f.client, url)
	if err != nil {
		return nil, errors.NewNetwork(f.GetName(), "fetch "+url, err)
	}
	return body, nil
}
