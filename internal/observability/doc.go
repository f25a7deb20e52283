// Package observability groups the logging and metrics infrastructure
// shared by the API server and the crawl worker.
//
// Subpackages:
//   - logging: slog-based JSON logger construction
//   - metrics: Prometheus metrics for the crawl pipeline and HTTP API
package observability
