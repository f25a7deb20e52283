// Package pathutil provides URL path helpers for the HTTP layer, primarily
// path normalization for metrics labels.
package pathutil

import "strings"

// knownPaths is the served route surface. The API is read-only and every
// route is static, so an allowlist is enough: anything outside it collapses
// into a single bucket instead of minting a new metrics label per scan.
var knownPaths = map[string]struct{}{
	"/api/v1/news":        {},
	"/api/v1/news/search": {},
	"/api/v1/news/stats":  {},
	"/health":             {},
	"/ready":              {},
	"/live":               {},
	"/metrics":            {},
}

// OtherPathLabel is the metrics label recorded for any path outside the
// served route surface. Scanners hammer arbitrary paths; without this
// bucket each scanned path would become its own label.
const OtherPathLabel = "other"

// NormalizePath maps a request path to a bounded metrics label. Query
// parameters and trailing slashes are stripped, then the path is matched
// against the served routes; unknown paths collapse to OtherPathLabel.
//
// Examples:
//
//	NormalizePath("/api/v1/news?limit=10")   // "/api/v1/news"
//	NormalizePath("/api/v1/news/search/")    // "/api/v1/news/search"
//	NormalizePath("/wp-admin/setup.php")     // "other"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := knownPaths[path]; ok {
		return path
	}
	return OtherPathLabel
}

// GetExpectedCardinality returns the number of unique path labels the
// metrics middleware can emit. This is useful for capacity planning and
// monitoring.
func GetExpectedCardinality() int {
	// Every served route plus the catch-all bucket.
	return len(knownPaths) + 1
}
