package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"htc-intelligence/internal/domain/entity"
	"htc-intelligence/internal/observability/metrics"
	"htc-intelligence/internal/repository"
)

// Service runs the crawl pipeline: extract candidates from each active
// source, filter by recency and relevance, classify, deduplicate, enrich,
// and store. Sources and items are processed sequentially so that the
// enrichment pacing and per-source logs stay readable and deterministic.
//
// No per-item or per-source failure aborts a run. A run fails only when the
// source list cannot be loaded, when it is empty, or when the context is
// cancelled.
type Service struct {
	SourceRepo     repository.SourceRepository
	NewsRepo       repository.NewsRepository
	Extractors     map[string]Extractor
	Classifier     Classifier
	Enricher       Enricher
	ExcerptFetcher ExcerptFetcher // optional, nil disables excerpt fetching
	Recency        *RecencyFilter
}

// NewService creates a crawl Service with the provided dependencies.
// excerptFetcher may be nil to disable full-text excerpts.
func NewService(
	sourceRepo repository.SourceRepository,
	newsRepo repository.NewsRepository,
	extractors map[string]Extractor,
	classifier Classifier,
	enricher Enricher,
	excerptFetcher ExcerptFetcher,
	recency *RecencyFilter,
) *Service {
	return &Service{
		SourceRepo:     sourceRepo,
		NewsRepo:       newsRepo,
		Extractors:     extractors,
		Classifier:     classifier,
		Enricher:       enricher,
		ExcerptFetcher: excerptFetcher,
		Recency:        recency,
	}
}

// RunStats contains counters for one pipeline run.
type RunStats struct {
	RunID      string
	Sources    int
	Fetched    int // candidates extracted across all sources
	Filtered   int // dropped by relevance or recency checks
	Duplicated int // skipped as already seen, in this run or in the store
	Inserted   int
	Failed     int // items that errored during enrichment or insert
	Duration   time.Duration
}

// Run executes one full crawl over all active sources and returns the run
// statistics. Partial results are persisted as the run progresses; a
// cancelled context aborts between items, never mid-insert.
func (s *Service) Run(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{RunID: uuid.NewString()}
	logger := slog.Default().With(slog.String("run_id", stats.RunID))
	start := time.Now()

	srcs, err := s.SourceRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active sources: %w", err)
	}
	if len(srcs) == 0 {
		return nil, ErrNoSources
	}
	stats.Sources = len(srcs)

	seen := newSeenTitles()
	for _, src := range srcs {
		if err := s.processSource(ctx, src, seen, stats, logger); err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}
	}

	stats.Duration = time.Since(start)
	metrics.RecordRunDuration(stats.Duration)

	if total, err := s.NewsRepo.Count(ctx); err != nil {
		logger.Warn("failed to refresh stored-news gauge", slog.String("error", err.Error()))
	} else {
		metrics.UpdateNewsTotal(total)
	}

	logger.Info("crawl run completed",
		slog.Int("sources", stats.Sources),
		slog.Int("fetched", stats.Fetched),
		slog.Int("filtered", stats.Filtered),
		slog.Int("duplicated", stats.Duplicated),
		slog.Int("inserted", stats.Inserted),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// selectExtractor chooses the extractor registered for the source type.
// An empty type means RSS; an unknown type disables the source.
func (s *Service) selectExtractor(src *entity.Source) (Extractor, error) {
	sourceType := src.SourceType
	if sourceType == "" {
		sourceType = entity.SourceTypeRSS
	}
	extractor, ok := s.Extractors[sourceType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSourceType, sourceType)
	}
	return extractor, nil
}

// processSource runs the pipeline for one source. It returns an error only
// on context cancellation; every other failure is logged and counted.
func (s *Service) processSource(
	ctx context.Context,
	src *entity.Source,
	seen *seenTitles,
	stats *RunStats,
	logger *slog.Logger,
) error {
	sourceStart := time.Now()
	srcLogger := logger.With(
		slog.Int64("source_id", src.ID),
		slog.String("source_name", src.Name),
	)

	extractor, err := s.selectExtractor(src)
	if err != nil {
		srcLogger.Warn("skipping source", slog.Any("error", err))
		metrics.RecordSourceCrawlError(src.Name, "unknown_type")
		return nil
	}

	items, err := extractor.Extract(ctx, src)
	if err != nil {
		if isContextErr(err) {
			return err
		}
		srcLogger.Warn("failed to extract from source",
			slog.String("feed_url", src.FeedURL),
			slog.Any("error", err))
		metrics.RecordSourceCrawlError(src.Name, "extract_failed")
		return nil
	}

	stats.Fetched += len(items)
	metrics.RecordItemsFetched(src.Name, len(items))

	candidates := s.filterItems(src, items, stats)
	if len(candidates) > 0 {
		if err := s.storeItems(ctx, src, candidates, seen, stats, srcLogger); err != nil {
			return err
		}
	}

	// The crawl timestamp records the attempt even when the run is
	// shutting down, hence the detached context.
	if err := s.SourceRepo.TouchCrawledAt(context.WithoutCancel(ctx), src.ID, time.Now()); err != nil {
		srcLogger.Warn("failed to update source crawl timestamp", slog.Any("error", err))
	}

	sourceDuration := time.Since(sourceStart)
	metrics.RecordSourceCrawl(src.Name, sourceDuration)
	srcLogger.Info("source crawl completed",
		slog.Int("fetched", len(items)),
		slog.Int("admitted", len(candidates)),
		slog.Duration("duration", sourceDuration),
	)
	return nil
}

// filterItems applies the relevance gate and the recency filter, counting
// each drop.
func (s *Service) filterItems(src *entity.Source, items []entity.RawItem, stats *RunStats) []entity.RawItem {
	now := time.Now()
	candidates := make([]entity.RawItem, 0, len(items))
	for _, item := range items {
		if !isRelevant(&item, src.RelevanceKeywords) {
			stats.Filtered++
			metrics.RecordItemFiltered(src.Name, metrics.FilterReasonIrrelevant)
			continue
		}
		if !s.Recency.Keep(&item, now) {
			stats.Filtered++
			metrics.RecordItemFiltered(src.Name, metrics.FilterReasonStale)
			continue
		}
		candidates = append(candidates, item)
	}
	return candidates
}

// storeItems classifies, deduplicates, enriches and inserts the admitted
// candidates, one at a time.
func (s *Service) storeItems(
	ctx context.Context,
	src *entity.Source,
	candidates []entity.RawItem,
	seen *seenTitles,
	stats *RunStats,
	logger *slog.Logger,
) error {
	titles := make([]string, 0, len(candidates))
	for _, item := range candidates {
		titles = append(titles, item.Title)
	}
	existsMap, err := s.NewsRepo.ExistsByTitleBatch(ctx, titles)
	if err != nil {
		if isContextErr(err) {
			return err
		}
		// Degrade to per-item checks so one failed batch query does not
		// drop the whole page of candidates.
		logger.Warn("failed to batch check titles, falling back to per-title checks",
			slog.Any("error", err))
		metrics.RecordSourceCrawlError(src.Name, "batch_check_failed")
		existsMap = nil
	}

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		stored := false
		if existsMap != nil {
			stored = existsMap[candidate.Title]
		} else {
			var checkErr error
			stored, checkErr = s.NewsRepo.ExistsByTitle(ctx, candidate.Title)
			if checkErr != nil {
				if isContextErr(checkErr) {
					return checkErr
				}
				stats.Failed++
				metrics.RecordItemFailed(src.Name, "store")
				logger.Warn("failed to check title",
					slog.String("title", candidate.Title),
					slog.Any("error", checkErr))
				continue
			}
		}

		if !seen.markSeen(candidate.Title) || stored {
			stats.Duplicated++
			metrics.RecordItemFiltered(src.Name, metrics.FilterReasonDuplicate)
			continue
		}

		if err := s.storeItem(ctx, src, &candidate, stats, logger); err != nil {
			return err
		}
	}
	return nil
}

// storeItem classifies, enriches and inserts one candidate. Returns an
// error only on context cancellation.
func (s *Service) storeItem(
	ctx context.Context,
	src *entity.Source,
	candidate *entity.RawItem,
	stats *RunStats,
	logger *slog.Logger,
) error {
	classification := s.Classifier.Classify(candidate.Title, candidate.Summary)

	item := &entity.NewsItem{
		Title:       candidate.Title,
		Link:        candidate.Link,
		Summary:     candidate.Summary,
		SourceName:  src.Name,
		Categories:  mergeCategories(classification.Categories, src.ForcedCategories),
		Sentiment:   classification.Sentiment,
		PublishedAt: candidate.PublishedAt,
	}

	excerpt := s.fetchExcerpt(ctx, src, candidate, logger)

	enrichment, err := s.Enricher.Enrich(ctx, item, excerpt)
	if err != nil {
		if isContextErr(err) {
			return err
		}
		stats.Failed++
		metrics.RecordItemFailed(src.Name, "enrich")
		logger.Warn("enrichment failed, skipping item",
			slog.String("title", candidate.Title),
			slog.Any("error", err))
		return nil
	}
	item.TitleCN = enrichment.TitleCN
	item.SummaryCN = enrichment.SummaryCN
	item.InsightCN = enrichment.InsightCN
	item.InsightEN = enrichment.InsightEN
	item.Sentiment = enrichment.Sentiment

	if err := s.NewsRepo.Create(ctx, item); err != nil {
		switch {
		case errors.Is(err, entity.ErrDuplicateTitle):
			// Lost a race with a concurrent writer; same outcome as
			// the batch check catching it.
			stats.Duplicated++
			metrics.RecordItemFiltered(src.Name, metrics.FilterReasonDuplicate)
		case isContextErr(err):
			return err
		default:
			stats.Failed++
			metrics.RecordItemFailed(src.Name, "store")
			logger.Warn("failed to store item",
				slog.String("title", candidate.Title),
				slog.Any("error", err))
		}
		return nil
	}

	stats.Inserted++
	metrics.RecordItemInserted(src.Name)
	return nil
}

// fetchExcerpt retrieves the article body text for enrichment context.
// It never fails the item: any error degrades to an empty excerpt.
func (s *Service) fetchExcerpt(ctx context.Context, src *entity.Source, candidate *entity.RawItem, logger *slog.Logger) string {
	if s.ExcerptFetcher == nil || candidate.Link == "" {
		return ""
	}

	bodySelector := ""
	if src.Selectors != nil {
		bodySelector = src.Selectors.BodySelector
	}

	excerpt, err := s.ExcerptFetcher.FetchExcerpt(ctx, candidate.Link, bodySelector)
	if err != nil {
		logger.Debug("excerpt fetch failed, enriching from summary only",
			slog.String("link", candidate.Link),
			slog.Any("error", err))
		return ""
	}
	return excerpt
}

// isRelevant applies the per-source keyword gate. An empty keyword list
// admits everything.
func isRelevant(item *entity.RawItem, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	text := strings.ToLower(item.Title + " " + item.Summary)
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// mergeCategories appends the source's forced categories to the classifier
// output, preserving order and dropping duplicates.
func mergeCategories(classified, forced []string) []string {
	if len(forced) == 0 {
		return classified
	}
	seen := make(map[string]struct{}, len(classified)+len(forced))
	merged := make([]string, 0, len(classified)+len(forced))
	for _, label := range classified {
		if _, ok := seen[label]; !ok {
			seen[label] = struct{}{}
			merged = append(merged, label)
		}
	}
	for _, label := range forced {
		if _, ok := seen[label]; !ok {
			seen[label] = struct{}{}
			merged = append(merged, label)
		}
	}
	return merged
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
