package crawler

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"sjsage522/couponfinder/logger"
	"sjsage522/couponfinder/pkg/errors"
)

// RenderedFetcher loads a page in a headless browser and reads the DOM
// after client-side scripts have run
type RenderedFetcher struct {
	UserAgent string
	// RemoteAddr is a DevTools websocket endpoint; empty launches a local browser
	RemoteAddr string
	// Wait bounds the wait for the first anchor element to appear
	Wait time.Duration
	// Settle is slept unconditionally after the wait so AJAX content can land
	Settle time.Duration
}

// NewRenderedFetcher creates a rendered fetcher
func NewRenderedFetcher(userAgent, remoteAddr string, wait, settle time.Duration) *RenderedFetcher {
	return &RenderedFetcher{
		UserAgent:  userAgent,
		RemoteAddr: remoteAddr,
		Wait:       wait,
		Settle:     settle,
	}
}

// GetName returns the fetcher name
func (f *RenderedFetcher) GetName() string {
	return string(ModeRendered)
}

func (f *RenderedFetcher) allocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.RemoteAddr != "" {
		return chromedp.NewRemoteAllocator(ctx, f.RemoteAddr)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.UserAgent),
	)
	return chromedp.NewExecAllocator(ctx, opts...)
}

// Fetch opens one browser session, loads url, reads the markup once and
// closes the session before returning.
func (f *RenderedFetcher) Fetch(ctx context.Context, url string) (io.Reader, error) {
	log := logger.ForExtractor(f.GetName())

	allocCtx, cancelAlloc := f.allocator(ctx)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	log.Debug().Str("url", url).Msg("Navigating")

	var html string
	err := chromedp.Run(browserCtx,
		emulation.SetUserAgentOverride(f.UserAgent),
		chromedp.Navigate(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			waitCtx, cancel := context.WithTimeout(ctx, f.Wait)
			defer cancel()
			return chromedp.WaitReady("a", chromedp.ByQuery).Do(waitCtx)
		}),
		chromedp.Sleep(f.Settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, errors.NewBrowser(f.GetName(), "render "+url, err)
	}

	log.Debug().Int("bytes", len(html)).Msg("Rendered page read")
	return strings.NewReader(html), nil
}
