package metrics

import "time"

// Filter reasons used with RecordItemFiltered.
const (
	FilterReasonStale      = "stale"
	FilterReasonDuplicate  = "duplicate"
	FilterReasonIrrelevant = "irrelevant"
)

// Enrichment outcomes used with RecordEnrichment.
const (
	EnrichOutcomeSuccess      = "success"
	EnrichOutcomeFallback     = "fallback"
	EnrichOutcomeNoCredential = "no_credential"
)

// RecordItemsFetched records the number of candidate items extracted from a source.
func RecordItemsFetched(sourceName string, count int) {
	ItemsFetchedTotal.WithLabelValues(sourceName).Add(float64(count))
}

// RecordItemFiltered records one item dropped before enrichment.
// Reason should be one of the FilterReason constants.
func RecordItemFiltered(sourceName, reason string) {
	ItemsFilteredTotal.WithLabelValues(sourceName, reason).Inc()
}

// RecordItemInserted records one record written to the store.
func RecordItemInserted(sourceName string) {
	ItemsInsertedTotal.WithLabelValues(sourceName).Inc()
}

// RecordItemFailed records one item that failed at the given stage and was skipped.
func RecordItemFailed(sourceName, stage string) {
	ItemsFailedTotal.WithLabelValues(sourceName, stage).Inc()
}

// RecordSourceCrawl records the end-to-end processing time for one source.
func RecordSourceCrawl(sourceName string, duration time.Duration) {
	SourceCrawlDuration.WithLabelValues(sourceName).Observe(duration.Seconds())
}

// RecordSourceCrawlError records a source-level crawl failure.
func RecordSourceCrawlError(sourceName, errorType string) {
	SourceCrawlErrors.WithLabelValues(sourceName, errorType).Inc()
}

// RecordRunDuration records the duration of a full pipeline run.
func RecordRunDuration(duration time.Duration) {
	RunDuration.Observe(duration.Seconds())
}

// RecordEnrichment records the outcome of one enrichment attempt.
// Outcome should be one of the EnrichOutcome constants.
func RecordEnrichment(outcome string, duration time.Duration) {
	EnrichmentsTotal.WithLabelValues(outcome).Inc()
	if duration > 0 {
		EnrichmentDuration.Observe(duration.Seconds())
	}
}

// RecordRetentionPurge records the number of records removed by a retention purge.
func RecordRetentionPurge(count int64) {
	if count > 0 {
		RetentionPurgedTotal.Add(float64(count))
	}
}

// UpdateNewsTotal updates the gauge of stored records.
// Updated after each run from a COUNT query.
func UpdateNewsTotal(count int64) {
	NewsTotal.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
