// Package news provides read-side use cases over stored news records:
// listing, category filtering, keyword search, and retention purges. The
// crawl pipeline is the only writer; this package never mutates records.
package news

import "errors"

// Sentinel errors for news use case operations.
var (
	// ErrInvalidLimit indicates that the requested page size is out of
	// range. Limits must be between 1 and MaxLimit.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrEmptyKeyword indicates that a search was requested without a
	// keyword.
	ErrEmptyKeyword = errors.New("search keyword is required")

	// ErrInvalidRetention indicates a non-positive retention period.
	ErrInvalidRetention = errors.New("retention days must be positive")
)
