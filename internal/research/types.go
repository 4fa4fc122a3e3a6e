// Package research fetches and cleans web pages so their text can be fed
// into summarization prompts. Fetches are bounded in size and time and are
// blocked from reaching private networks.
package research

import (
	"time"
	"unicode/utf8"
)

// PageResult is the outcome of fetching one source URL.
type PageResult struct {
	URL         string
	FinalURL    string
	Title       string
	ContentType string
	Text        string
	FetchStatus string
	FetchedAt   time.Time
	Truncated   bool
}

func trimToRunes(raw string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(raw) <= limit {
		return raw
	}
	return string([]rune(raw)[:limit])
}
