// Package metrics holds the process-wide Prometheus collectors and thin
// recording helpers around them. Collectors register at init via promauto
// and are scraped from the /metrics endpoint of each binary.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
}

func gauge(name, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
}

func histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.NewHistogram(prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets})
}

func histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets}, labels)
}

// HTTP metrics for the read-only news API.
var (
	HTTPRequestsTotal = counterVec("http_requests_total",
		"Total number of HTTP requests", "method", "path", "status")

	HTTPRequestDuration = histogramVec("http_request_duration_seconds",
		"HTTP request duration in seconds", prometheus.DefBuckets,
		"method", "path", "status")

	ActiveConnections = gauge("http_active_connections",
		"Number of active HTTP connections")
)

// Pipeline metrics track the ingestion run stage by stage
var (
	NewsTotal = gauge("news_total",
		"Total number of news records in the database")

	ItemsFetchedTotal = counterVec("pipeline_items_fetched_total",
		"Total number of candidate items extracted from sources", "source")

	// reason: stale, duplicate, irrelevant
	ItemsFilteredTotal = counterVec("pipeline_items_filtered_total",
		"Total number of items dropped before enrichment", "source", "reason")

	ItemsInsertedTotal = counterVec("pipeline_items_inserted_total",
		"Total number of news records inserted", "source")

	// stage: extract, enrich, store
	ItemsFailedTotal = counterVec("pipeline_items_failed_total",
		"Total number of items that failed and were skipped", "source", "stage")

	SourceCrawlDuration = histogramVec("pipeline_source_crawl_duration_seconds",
		"Time taken to crawl and process a source",
		prometheus.ExponentialBuckets(0.1, 2, 10), "source")

	SourceCrawlErrors = counterVec("pipeline_source_crawl_errors_total",
		"Total number of source crawl errors", "source", "error_type")

	RunDuration = histogram("pipeline_run_duration_seconds",
		"Time taken for a full pipeline run", prometheus.ExponentialBuckets(1, 2, 12))
)

// Enrichment metrics track the external text-generation service
var (
	// outcome: success, fallback, no_credential
	EnrichmentsTotal = counterVec("enrichments_total",
		"Total number of enrichment attempts by outcome", "outcome")

	EnrichmentDuration = histogram("enrichment_duration_seconds",
		"Time taken for one enrichment call", prometheus.ExponentialBuckets(0.5, 2, 10))

	RetentionPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retention_purged_total",
		Help: "Total number of news records removed by retention purges",
	})
)

// Database metrics, fed by the repositories and the health check.
var (
	DBQueryDuration = histogramVec("db_query_duration_seconds",
		"Database query duration in seconds",
		prometheus.ExponentialBuckets(0.001, 2, 10), "operation")

	DBConnectionsActive = gauge("db_connections_active",
		"Number of active database connections")

	DBConnectionsIdle = gauge("db_connections_idle",
		"Number of idle database connections")
)

// RecordHTTPRequest records one served request in the counter and the
// latency histogram.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
