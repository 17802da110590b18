package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"sjsage522/couponfinder/config"
	"sjsage522/couponfinder/internal/crawler"
	"sjsage522/couponfinder/services/api"
	"sjsage522/couponfinder/services/cache"
	"sjsage522/couponfinder/services/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postHTML = `<html><body><article>
	<ul>
		<li>Complete Go Developer – <a href="https://www.udemy.com/course/go/?couponCode=GO1">Enroll for Free</a></li>
		<li>Docker for Beginners – <a href="https://www.udemy.com/course/docker/?couponCode=DK2">Enroll for Free</a></li>
	</ul>
	<p>Linux Basics – <a href="https://www.udemy.com/course/linux/?couponCode=LX3">Claim</a></p>
</article></body></html>`

func listingPage(year int) string {
	return fmt.Sprintf(`<html><body>
		<a href="/">Home</a>
		<a href="/d/1-udemy-free-courses">Udemy Free Courses for 3 March %[1]d</a>
		<a href="/d/2-udemy-free-courses">Udemy Free Courses for 12 April %[1]d</a>
		<a href="/d/0-udemy-free-courses">Udemy Free Courses for 30 December %[2]d</a>
		<a href="/d/3-udemy-weekly">Weekly udemy roundup</a>
	</body></html>`, year, year-1)
}

// MockPublisher records published messages
type MockPublisher struct {
	mu       sync.Mutex
	messages [][]byte
}

func (m *MockPublisher) Publish(ctx context.Context, key string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	return nil
}

func (m *MockPublisher) TrimStreams(ctx context.Context) error { return nil }

func (m *MockPublisher) Close() error { return nil }

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	year := time.Now().Year()

	mux := http.NewServeMux()
	mux.HandleFunc("/t/free-coupons", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(listingPage(year)))
	})
	mux.HandleFunc("/d/1-udemy-free-courses", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(postHTML))
	})

	site := httptest.NewServer(mux)
	t.Cleanup(site.Close)
	return site
}

func newSiteService(site *httptest.Server) *crawler.Service {
	static := crawler.NewStaticFetcher(config.DefaultUserAgent, 5*time.Second)
	return crawler.NewService(site.URL+"/t/free-coupons", static, static)
}

func TestIntegrationAPI(t *testing.T) {
	site := newSite(t)
	server := httptest.NewServer(api.NewServer(newSiteService(site), 5).Router())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/coupons?mode=static")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listings []crawler.ListingRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listings))
	require.Len(t, listings, 3)
	assert.Equal(t, "https://hacksnation.com/d/2-udemy-free-courses", listings[0].URL)
	assert.Equal(t, "https://hacksnation.com/d/1-udemy-free-courses", listings[1].URL)
	assert.Equal(t, "Weekly udemy roundup", listings[2].Title)
	assert.Nil(t, listings[2].PostDate)

	postURL := site.URL + "/d/1-udemy-free-courses"
	resp, err = http.Get(server.URL + "/api/extract-courses?url=" + url.QueryEscape(postURL))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		URL     string                 `json:"url"`
		Count   int                    `json:"count"`
		Courses []crawler.CourseRecord `json:"courses"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, postURL, body.URL)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, []crawler.CourseRecord{
		{Title: "Complete Go Developer", URL: "https://www.udemy.com/course/go/?couponCode=GO1"},
		{Title: "Docker for Beginners", URL: "https://www.udemy.com/course/docker/?couponCode=DK2"},
		{Title: "Linux Basics – Claim", URL: "https://www.udemy.com/course/linux/?couponCode=LX3"},
	}, body.Courses)
}

func TestIntegrationWorkerPublishesOnce(t *testing.T) {
	site := newSite(t)
	pub := &MockPublisher{}

	w := worker.NewWorker(newSiteService(site), pub, cache.NewLocalCache(100, time.Hour), worker.Options{
		Interval: time.Hour,
		Limit:    0,
		Mode:     crawler.ModeStatic,
		SeenTTL:  time.Hour,
	})

	assert.Equal(t, 3, w.RunOnce(context.Background()))
	assert.Equal(t, 0, w.RunOnce(context.Background()))
	require.Len(t, pub.messages, 3)

	var first crawler.ListingRecord
	require.NoError(t, json.Unmarshal(pub.messages[0], &first))
	require.NotNil(t, first.PostDate)
	assert.Equal(t, "April", first.Month)
	assert.Equal(t, time.Now().Year(), first.Year)
}
