// Package feed provides implementations for extracting candidate news items
// from RSS/Atom feeds and HTML listing pages. It uses the gofeed and goquery
// libraries with reliability patterns.
package feed

import (
	"context"
	"net/http"
	"strings"
	"time"

	"htc-intelligence/internal/domain/entity"
	"htc-intelligence/internal/resilience"
	"htc-intelligence/internal/resilience/circuitbreaker"
	"htc-intelligence/internal/resilience/retry"
	"htc-intelligence/internal/utils/text"

	"github.com/mmcdole/gofeed"
)

const (
	// userAgent identifies the crawler to upstream feed servers.
	userAgent = "HTCIntelligenceBot/1.0"

	// maxItemsPerFeed caps how many entries are taken from a single feed.
	maxItemsPerFeed = 16

	// summaryMaxRunes caps the stored summary length.
	summaryMaxRunes = 300
)

// RSSExtractor implements Extractor for RSS/Atom sources using gofeed.
type RSSExtractor struct {
	client *http.Client
	guard  resilience.Guard
}

// NewRSSExtractor creates an RSSExtractor whose fetches run behind the
// feed-fetch circuit breaker and retry schedule.
func NewRSSExtractor(client *http.Client) *RSSExtractor {
	return &RSSExtractor{
		client: client,
		guard:  resilience.NewGuard("feed-fetch", circuitbreaker.FeedFetchConfig(), retry.FeedFetchConfig()),
	}
}

// Extract retrieves and parses an RSS/Atom feed for the given source.
func (e *RSSExtractor) Extract(ctx context.Context, source *entity.Source) ([]entity.RawItem, error) {
	return resilience.Do(ctx, e.guard, source.FeedURL, func() ([]entity.RawItem, error) {
		return e.doExtract(ctx, source)
	})
}

// doExtract performs one feed fetch, outside any retry or breaker.
func (e *RSSExtractor) doExtract(ctx context.Context, source *entity.Source) ([]entity.RawItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = userAgent
	fp.Client = e.client

	feed, err := fp.ParseURLWithContext(source.FeedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]entity.RawItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if len(items) >= maxItemsPerFeed {
			break
		}

		title := strings.TrimSpace(it.Title)
		if title == "" || it.Link == "" {
			continue
		}

		// Description first, Content as fallback
		summary := it.Description
		if summary == "" {
			summary = it.Content
		}
		summary = text.Truncate(text.StripTags(summary), summaryMaxRunes)

		publishedAt := time.Now()
		dateKnown := false
		if it.PublishedParsed != nil {
			publishedAt = *it.PublishedParsed
			dateKnown = true
		} else if it.UpdatedParsed != nil {
			publishedAt = *it.UpdatedParsed
			dateKnown = true
		}

		items = append(items, entity.RawItem{
			Title:       title,
			Link:        it.Link,
			Summary:     summary,
			SourceName:  source.Name,
			PublishedAt: publishedAt,
			DateKnown:   dateKnown,
		})
	}

	return items, nil
}
