package entity

import (
	"errors"
	"fmt"
	"time"
)

// Source type discriminators. RSS sources are parsed by the feed extractor,
// HTML sources by the selector-driven page extractor.
const (
	SourceTypeRSS  = "RSS"
	SourceTypeHTML = "HTML"
)

// Source represents one configured external feed or page to poll.
// It is read-only to the pipeline; the source list is seeded configuration
// and immutable for the duration of a run.
type Source struct {
	ID            int64
	Name          string
	FeedURL       string
	Active        bool
	LastCrawledAt *time.Time
	SourceType    string          `json:"source_type"`
	Selectors     *SelectorConfig `json:"selectors"`
	// Encoding overrides charset detection for pages that declare no
	// usable charset (IANA name, e.g. "GBK"). Empty means UTF-8.
	Encoding string `json:"encoding,omitempty"`
	// RelevanceKeywords, when non-empty, gates items from this source:
	// only items whose title or summary contains one of the keywords
	// (case-insensitive) are admitted. Used for broad global outlets.
	RelevanceKeywords []string `json:"relevance_keywords,omitempty"`
	// ForcedCategories are always applied to items from this source in
	// addition to rule matches, e.g. a dedicated macro-economy feed.
	ForcedCategories []string `json:"forced_categories,omitempty"`
}

// SelectorConfig holds the CSS selectors used to extract items from an
// HTML source. ArticleSelector scopes one candidate item; the remaining
// selectors are evaluated within that scope.
type SelectorConfig struct {
	ArticleSelector string `json:"article_selector"`
	TitleSelector   string `json:"title_selector"`
	LinkSelector    string `json:"link_selector"`
	SummarySelector string `json:"summary_selector,omitempty"`
	DateSelector    string `json:"date_selector,omitempty"`
	DateFormat      string `json:"date_format,omitempty"`
	// BodySelector locates the article body on the detail page for the
	// full-text excerpt fetch. Empty falls back to readability.
	BodySelector string `json:"body_selector,omitempty"`
	// URLPrefix is prepended to relative item links.
	URLPrefix string `json:"url_prefix,omitempty"`
}

// Validate validates the Source entity fields.
// It checks that the source type is valid and that HTML sources carry the
// selectors the extractor needs.
func (s *Source) Validate() error {
	if s.SourceType == "" {
		s.SourceType = SourceTypeRSS
	}

	switch s.SourceType {
	case SourceTypeRSS, SourceTypeHTML:
	default:
		return fmt.Errorf("invalid source_type: %s (must be RSS or HTML)", s.SourceType)
	}

	if s.SourceType == SourceTypeHTML {
		if s.Selectors == nil {
			return errors.New("selectors are required for HTML sources")
		}
		if s.Selectors.ArticleSelector == "" || s.Selectors.TitleSelector == "" {
			return errors.New("article_selector and title_selector are required for HTML sources")
		}
	}

	return nil
}
