package feed

import (
	"net/http"

	"htc-intelligence/internal/usecase/crawl"
)

// ExtractorFactory creates extractor instances for the supported source types.
// It provides a centralized way to instantiate extractors with consistent
// configuration.
type ExtractorFactory struct {
	client *http.Client
}

// NewExtractorFactory creates a new ExtractorFactory with the given HTTP client.
// The HTTP client should be configured with appropriate timeouts and security settings.
func NewExtractorFactory(client *http.Client) *ExtractorFactory {
	return &ExtractorFactory{client: client}
}

// CreateExtractors creates and returns a map of all available extractors.
// The keys are source type names ("RSS", "HTML") and the values are the
// corresponding Extractor implementations.
//
// This map is used by the crawl service to route sources to the appropriate
// extractor.
func (f *ExtractorFactory) CreateExtractors() map[string]crawl.Extractor {
	return map[string]crawl.Extractor{
		"RSS":  NewRSSExtractor(f.client),
		"HTML": NewHTMLExtractor(f.client),
	}
}
