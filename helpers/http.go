package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

// NewHTTPClient returns a client that sends the fixed header set on every
// request. A zero timeout leaves requests bounded only by their context.
func NewHTTPClient(userAgent string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	return client
}

// FetchHTML sends a GET request for url, fails on transport errors and
// non-2xx responses, converts the body to UTF-8 (if needed) and returns it
// as an io.Reader.
func FetchHTML(ctx context.Context, client *resty.Client, url string) (io.Reader, error) {
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch %s unexpected status code: %d", url, resp.StatusCode())
	}

	bodyBytes := resp.Body()

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header().Get("Content-Type"))

	// If already UTF-8, return as is
	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(bodyBytes), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}

	return &buf, nil
}
