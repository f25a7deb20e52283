// Package crawl implements the news crawl pipeline: extraction, filtering,
// classification, deduplication, enrichment and persistence, executed
// sequentially per source.
package crawl

import (
	"context"

	"htc-intelligence/internal/domain/entity"
)

// Extractor retrieves candidate items from a configured source.
// Implementations exist per source type (RSS feeds, HTML listing pages).
type Extractor interface {
	Extract(ctx context.Context, source *entity.Source) ([]entity.RawItem, error)
}

// Enricher produces the bilingual analysis for a classified item. The
// excerpt, when non-empty, gives the provider the article body beyond the
// feed summary. Implementations must return a usable Enrichment even when
// the upstream provider is unavailable (fallback content), and only return
// an error when nothing sensible can be produced.
type Enricher interface {
	Enrich(ctx context.Context, item *entity.NewsItem, excerpt string) (*entity.Enrichment, error)
}

// ExcerptFetcher retrieves a plain-text excerpt of an article page, used to
// give the enricher more context than the feed summary alone.
type ExcerptFetcher interface {
	FetchExcerpt(ctx context.Context, pageURL string, bodySelector string) (string, error)
}

// Classifier assigns categories and a sentiment to a candidate item based on
// its title and summary.
type Classifier interface {
	Classify(title, summary string) entity.Classification
}
