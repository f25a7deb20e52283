package http

import (
	"net/http"
	"strconv"
	"time"

	"htc-intelligence/internal/handler/http/pathutil"
	"htc-intelligence/internal/handler/http/responsewriter"
	"htc-intelligence/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request and response size histograms are owned by the HTTP layer; request
// counts, durations, and the in-flight gauge live in the central registry
// (observability/metrics).
var (
	httpRequestSize  = sizeHistogram("http_request_size_bytes", "HTTP request size in bytes")
	httpResponseSize = sizeHistogram("http_response_size_bytes", "HTTP response size in bytes")
)

func sizeHistogram(name, help string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: prometheus.ExponentialBuckets(100, 10, 8),
	}, []string{"method", "path"})
}

// MetricsMiddleware records request count, duration, size, and status for
// every request, labeled with the normalized path so ID-bearing and scanned
// paths cannot explode label cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.ActiveConnections.Inc()
		defer metrics.ActiveConnections.Dec()

		// Unserved paths collapse into one label to bound cardinality.
		normalizedPath := pathutil.NormalizePath(r.URL.Path)

		if r.ContentLength > 0 {
			httpRequestSize.WithLabelValues(r.Method, normalizedPath).Observe(float64(r.ContentLength))
		}

		rw := responsewriter.Wrap(w)

		start := time.Now()
		next.ServeHTTP(rw, r)
		duration := time.Since(start)

		status := strconv.Itoa(rw.StatusCode())
		metrics.RecordHTTPRequest(r.Method, normalizedPath, status, duration)
		httpResponseSize.WithLabelValues(r.Method, normalizedPath).Observe(float64(rw.BytesWritten()))
	})
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
