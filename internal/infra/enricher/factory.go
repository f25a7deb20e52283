package enricher

import (
	"log/slog"

	"htc-intelligence/internal/usecase/crawl"
)

// New creates the Enricher implementation selected by the configuration.
// A missing API key always yields the fallback enricher, regardless of the
// configured provider: fallback-only operation is a supported mode, not an
// error.
func New(cfg *Config) crawl.Enricher {
	if cfg.Provider == ProviderNone || cfg.APIKey == "" {
		if cfg.Provider != ProviderNone {
			slog.Warn("no enrichment credential configured, using deterministic fallback",
				slog.String("provider", cfg.Provider))
		}
		return NewFallback()
	}

	switch cfg.Provider {
	case ProviderClaude:
		return NewClaude(cfg)
	default:
		return NewDeepSeek(cfg)
	}
}
