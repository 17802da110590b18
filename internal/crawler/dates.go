package crawler

import (
	"regexp"
	"sort"
	"strconv"
)

var postDateRegex = regexp.MustCompile(`for\s+(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})`)

// Full English month names only; anything else ranks as 0.
var monthIndexes = map[string]int{
	"January": 1, "February": 2, "March": 3, "April": 4,
	"May": 5, "June": 6, "July": 7, "August": 8,
	"September": 9, "October": 10, "November": 11, "December": 12,
}

// parsePostDate finds "for <day> <Month> <year>" anywhere in title
func parsePostDate(title string) (*PostDate, bool) {
	m := postDateRegex.FindStringSubmatch(title)
	if m == nil {
		return nil, false
	}

	day, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, false
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, false
	}

	return &PostDate{Day: day, Month: m[2], Year: year}, true
}

func monthIndex(name string) int {
	return monthIndexes[name]
}

// rankKey orders listings by (year, month, day), absent parts as 0
func rankKey(r ListingRecord) [3]int {
	if r.PostDate == nil {
		return [3]int{}
	}
	return [3]int{r.Year, monthIndex(r.Month), r.Day}
}

// sortByDate stable-sorts records newest first
func sortByDate(records []ListingRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := rankKey(records[i]), rankKey(records[j])
		for k := range a {
			if a[k] != b[k] {
				return a[k] > b[k]
			}
		}
		return false
	})
}
