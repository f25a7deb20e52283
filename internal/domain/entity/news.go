// Package entity defines the core domain entities and validation logic for the
// application. It contains the fundamental business objects such as NewsItem and
// Source, along with their validation rules and domain-specific errors.
package entity

import "time"

// Sentiment is the tone label attached to a news item.
type Sentiment string

// Valid sentiment values. Neutral is the default when no signal is present.
const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// ParseSentiment normalizes a free-form sentiment string to one of the three
// valid values. Anything unrecognized maps to Neutral.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNegative:
		return Sentiment(s)
	default:
		return SentimentNeutral
	}
}

// NewsItem represents one persisted market-intelligence news record.
// Title is the uniqueness key: the store never holds two records with the
// same title, and existing records are not updated on re-ingestion.
type NewsItem struct {
	ID          int64
	Title       string
	Link        string
	Summary     string
	SourceName  string
	Categories  []string
	Sentiment   Sentiment
	TitleCN     string
	SummaryCN   string
	InsightCN   string
	InsightEN   string
	PublishedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RawItem is an extracted, unfiltered candidate produced by a feed extractor.
// It carries no identity; items that survive filtering and deduplication are
// promoted to NewsItem by the pipeline.
type RawItem struct {
	Title       string
	Link        string
	Summary     string
	SourceName  string
	PublishedAt time.Time
	// DateKnown reports whether PublishedAt was parsed from the feed.
	// When false, PublishedAt holds the fetch time.
	DateKnown bool
}

// Classification is the ephemeral output of the rule classifier.
type Classification struct {
	Categories []string
	Sentiment  Sentiment
}

// Enrichment carries the bilingual fields produced by the insight service
// or, when the service is unavailable, by the deterministic fallback.
type Enrichment struct {
	TitleCN   string
	SummaryCN string
	InsightCN string
	InsightEN string
	Sentiment Sentiment
}
