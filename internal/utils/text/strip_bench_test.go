package text_test

import (
	"testing"

	"htc-intelligence/internal/utils/text"
	"htc-intelligence/tests/fixtures"
)

// BenchmarkStripTags measures markup stripping on realistic article bodies.
func BenchmarkStripTags(b *testing.B) {
	body := "<div><p>" + fixtures.GenerateMediumNews() + "</p></div>"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		text.StripTags(body)
	}
}

// BenchmarkTruncate measures rune-aware truncation of a long excerpt.
func BenchmarkTruncate(b *testing.B) {
	body := fixtures.GenerateLongNews()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		text.Truncate(body, 1500)
	}
}
