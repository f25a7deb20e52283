package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Sentiment
	}{
		{
			name:  "positive",
			input: "Positive",
			want:  SentimentPositive,
		},
		{
			name:  "negative",
			input: "Negative",
			want:  SentimentNegative,
		},
		{
			name:  "neutral",
			input: "Neutral",
			want:  SentimentNeutral,
		},
		{
			name:  "empty defaults to neutral",
			input: "",
			want:  SentimentNeutral,
		},
		{
			name:  "unknown value defaults to neutral",
			input: "bullish",
			want:  SentimentNeutral,
		},
		{
			name:  "lowercase is not normalized",
			input: "positive",
			want:  SentimentNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSentiment(tt.input))
		})
	}
}

func TestNewsItem_Struct(t *testing.T) {
	published := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	item := NewsItem{
		ID:          1,
		Title:       "Thailand extends visa-free entry",
		Link:        "https://example.com/visa-free",
		Summary:     "Thailand grants visa-free entry to tourists.",
		SourceName:  "TTR Weekly",
		Categories:  []string{"Visa Policy", "Short Haul"},
		Sentiment:   SentimentPositive,
		TitleCN:     "泰国延长免签入境",
		PublishedAt: published,
	}

	assert.Equal(t, int64(1), item.ID)
	assert.Equal(t, "TTR Weekly", item.SourceName)
	assert.Len(t, item.Categories, 2)
	assert.Equal(t, SentimentPositive, item.Sentiment)
	assert.Equal(t, published, item.PublishedAt)
}

func TestRawItem_DateKnown(t *testing.T) {
	t.Run("parsed date", func(t *testing.T) {
		item := RawItem{
			Title:       "Airline resumes direct flights",
			Link:        "https://example.com/flights",
			PublishedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			DateKnown:   true,
		}
		assert.True(t, item.DateKnown)
		assert.False(t, item.PublishedAt.IsZero())
	})

	t.Run("unknown date carries fetch time", func(t *testing.T) {
		now := time.Now()
		item := RawItem{
			Title:       "Untitled feed entry",
			Link:        "https://example.com/entry",
			PublishedAt: now,
			DateKnown:   false,
		}
		assert.False(t, item.DateKnown)
		assert.Equal(t, now, item.PublishedAt)
	})
}
