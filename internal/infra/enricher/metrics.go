package enricher

import (
	"time"

	"htc-intelligence/internal/observability/metrics"
)

// Outcome labels recorded per enrichment attempt.
const (
	OutcomeSuccess      = metrics.EnrichOutcomeSuccess
	OutcomeFallback     = metrics.EnrichOutcomeFallback
	OutcomeNoCredential = metrics.EnrichOutcomeNoCredential
)

// MetricsRecorder abstracts enrichment metrics recording, enabling mock
// recorders in unit tests instead of the process-global Prometheus registry.
type MetricsRecorder interface {
	// RecordEnrichment records one enrichment attempt with its outcome and
	// duration.
	RecordEnrichment(outcome string, duration time.Duration)
}

// PrometheusMetrics implements MetricsRecorder on the shared Prometheus
// registry. This is the production implementation.
type PrometheusMetrics struct{}

// NewPrometheusMetrics creates the production metrics recorder.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{}
}

// RecordEnrichment implements MetricsRecorder.
func (*PrometheusMetrics) RecordEnrichment(outcome string, duration time.Duration) {
	metrics.RecordEnrichment(outcome, duration)
}
