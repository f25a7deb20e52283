// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Pipeline metrics (items fetched, classified, enriched, inserted)
//   - Enrichment service call metrics
//   - Database query metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "htc-intelligence/internal/observability/metrics"
//
//	func processSource(source string) {
//	    start := time.Now()
//	    // ... crawl the source ...
//	    metrics.RecordItemsFetched(source, 12)
//	    metrics.RecordSourceCrawl(source, time.Since(start))
//	}
package metrics
