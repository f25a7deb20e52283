package crawl

import "errors"

// Sentinel errors for crawl pipeline operations.
var (
	// ErrNoSources indicates that no active sources are configured. A run
	// cannot do anything useful without at least one source, so this is
	// the one condition that fails a run outright.
	ErrNoSources = errors.New("no active sources configured")

	// ErrUnknownSourceType indicates a source whose type has no registered
	// extractor. The source is skipped, never the run.
	ErrUnknownSourceType = errors.New("unknown source type")
)
