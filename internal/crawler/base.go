package crawler

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"sjsage522/couponfinder/pkg/errors"
)

const (
	// BaseURL is prefixed to listing hrefs that are not already absolute
	BaseURL = "https://hacksnation.com"

	// EnrollLabel is the text of the in-page enrollment action
	EnrollLabel = "Enroll for Free"

	titleSeparator = "–"
)

// createDocument creates a goquery document from a reader
func createDocument(source string, reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, errors.NewParsing(source, "HTML parsing failed", err)
	}
	return doc, nil
}

// resolveURL makes a listing href absolute by plain concatenation
func resolveURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return BaseURL + href
}

// visibleText returns the selection's text content, whitespace-trimmed
func visibleText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// deriveCourseTitle strips the enrollment label and a single trailing
// separator from a container's text
func deriveCourseTitle(text string) string {
	title := strings.TrimSpace(strings.ReplaceAll(text, EnrollLabel, ""))
	if strings.HasSuffix(title, titleSeparator) {
		title = strings.TrimSpace(strings.TrimSuffix(title, titleSeparator))
	}
	return title
}

// nearestContainer returns the closest paragraph ancestor, falling back to
// the closest list item. The selection is empty when neither exists.
func nearestContainer(s *goquery.Selection) *goquery.Selection {
	if p := s.ParentsFiltered("p").First(); p.Length() > 0 {
		return p
	}
	return s.ParentsFiltered("li").First()
}
