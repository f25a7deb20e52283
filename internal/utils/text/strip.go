// Package text provides plain-text helpers shared by the feed extractors
// and the excerpt fetcher.
package text

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// StripTags removes HTML tags from the given text and collapses runs of
// whitespace into single spaces. Feed summaries frequently arrive as HTML
// fragments; the pipeline stores plain text only.
//
// Examples:
//
//	StripTags("<p>Flights resume</p>")       // returns "Flights resume"
//	StripTags("a\n\n  b")                    // returns "a b"
func StripTags(text string) string {
	stripped := tagPattern.ReplaceAllString(text, " ")
	collapsed := whitespacePattern.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(collapsed)
}

// Truncate shortens text to at most limit runes, appending an ellipsis when
// truncation occurs. Counting runes keeps multi-byte characters intact.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
