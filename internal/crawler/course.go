package crawler

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"sjsage522/couponfinder/logger"
)

// DefaultCourseStrategies are tried in order; each targets a different
// markup shape for the same course entry.
var DefaultCourseStrategies = []CourseStrategy{
	{Name: "enroll-link-in-item", Find: findEnrollLinksInItems},
	{Name: "enroll-link-in-emphasis", OnlyIfEmpty: true, Find: findEnrollLinksInEmphasis},
	{Name: "coupon-link-anywhere", Find: findCouponLinks},
}

// CourseExtractor pulls enrollable courses out of a course round-up page
type CourseExtractor struct {
	Fetcher    Fetcher
	Strategies []CourseStrategy
	log        *logger.Logger
}

// NewCourseExtractor creates a course extractor using the default strategies
func NewCourseExtractor(fetcher Fetcher) *CourseExtractor {
	return &CourseExtractor{
		Fetcher:    fetcher,
		Strategies: DefaultCourseStrategies,
		log:        logger.ForExtractor("course"),
	}
}

// GetName returns the extractor's name for logging and identification
func (e *CourseExtractor) GetName() string {
	return "course"
}

// FetchCourses acquires url and extracts its courses. Fetch and parse
// failures are logged and yield an empty result.
func (e *CourseExtractor) FetchCourses(ctx context.Context, url string) []CourseRecord {
	body, err := e.Fetcher.Fetch(ctx, url)
	if err != nil {
		e.log.Error().Err(err).Str("strategy", e.Fetcher.GetName()).Str("url", url).Msg("Course page fetch failed")
		return []CourseRecord{}
	}

	doc, err := createDocument(e.GetName(), body)
	if err != nil {
		e.log.Error().Err(err).Str("url", url).Msg("Course page parse failed")
		return []CourseRecord{}
	}

	courses := e.Extract(doc)
	e.log.Info().Str("url", url).Int("count", len(courses)).Msg("Total courses extracted")
	return courses
}

// Extract runs the strategies over doc, deduplicating by URL and then by
// case-insensitive title
func (e *CourseExtractor) Extract(doc *goquery.Document) []CourseRecord {
	var courses []CourseRecord
	seenURLs := make(map[string]bool)

	for _, strategy := range e.Strategies {
		if strategy.OnlyIfEmpty && len(courses) > 0 {
			continue
		}

		added := 0
		for _, c := range strategy.Find(doc) {
			if seenURLs[c.url] {
				continue
			}
			seenURLs[c.url] = true
			courses = append(courses, CourseRecord{
				Title: deriveCourseTitle(c.container.Text()),
				URL:   c.url,
			})
			added++
		}

		e.log.Debug().Str("strategy", strategy.Name).Int("added", added).Msg("Strategy finished")
	}

	return dedupeByTitle(courses)
}

func dedupeByTitle(courses []CourseRecord) []CourseRecord {
	result := make([]CourseRecord, 0, len(courses))
	seen := make(map[string]bool, len(courses))
	for _, c := range courses {
		key := strings.ToLower(c.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, c)
	}
	return result
}

// enrollLink returns the first descendant anchor labelled with the
// enrollment action
func enrollLink(s *goquery.Selection) *goquery.Selection {
	return s.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return visibleText(a) == EnrollLabel
	}).First()
}

func findEnrollLinksInItems(doc *goquery.Document) []courseCandidate {
	var candidates []courseCandidate
	doc.Find("li, p").Each(func(_ int, item *goquery.Selection) {
		link := enrollLink(item)
		if href, ok := link.Attr("href"); ok {
			candidates = append(candidates, courseCandidate{url: href, container: item})
		}
	})
	return candidates
}

func findEnrollLinksInEmphasis(doc *goquery.Document) []courseCandidate {
	var candidates []courseCandidate
	doc.Find("strong, b").Each(func(_ int, strong *goquery.Selection) {
		link := enrollLink(strong)
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		if container := nearestContainer(strong); container.Length() > 0 {
			candidates = append(candidates, courseCandidate{url: href, container: container})
		}
	})
	return candidates
}

func findCouponLinks(doc *goquery.Document) []courseCandidate {
	var candidates []courseCandidate
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "udemy.com/course") || !strings.Contains(href, "couponCode=") {
			return
		}
		if container := nearestContainer(a); container.Length() > 0 {
			candidates = append(candidates, courseCandidate{url: href, container: container})
		}
	})
	return candidates
}
