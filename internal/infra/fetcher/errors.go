package fetcher

import "errors"

// Sentinel errors for excerpt fetching. Callers treat all of them as
// non-fatal: a failed excerpt fetch means the enricher works from the feed
// summary alone.
var (
	// ErrInvalidURL indicates the page URL is malformed or uses a
	// disallowed scheme.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates the hostname resolves to a private IP
	// address (SSRF prevention).
	ErrPrivateIP = errors.New("private IP address")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrTooManyRedirects indicates the redirect limit was exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrExtractFailed indicates no readable article content could be
	// extracted from the page.
	ErrExtractFailed = errors.New("content extraction failed")
)
