// Package enricher provides bilingual enrichment implementations backed by
// chat-completion APIs, with a deterministic category-based fallback. Every
// provider degrades to the fallback on transport errors, malformed responses
// or a missing credential, so enrichment never fails an item.
package enricher

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"htc-intelligence/pkg/config"
)

// Provider identifiers accepted in ENRICHER_TYPE.
const (
	ProviderDeepSeek = "deepseek"
	ProviderClaude   = "claude"
	ProviderNone     = "none"
)

// Config holds configuration parameters for the enricher.
// Configuration is loaded from environment variables with fallback to defaults.
type Config struct {
	// Provider selects the enrichment backend: "deepseek" (or any
	// OpenAI-compatible chat-completion endpoint), "claude", or "none"
	// (deterministic fallback only, no network calls).
	Provider string

	// APIKey is the bearer token for the enrichment API. An empty key is a
	// valid operating mode: the enricher short-circuits to the fallback
	// without attempting a network call.
	APIKey string

	// BaseURL overrides the provider's API endpoint. For deepseek it
	// defaults to https://api.deepseek.com/v1; for claude an empty value
	// keeps the SDK's built-in endpoint.
	BaseURL string

	// Model is the model identifier sent with each request.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Timeout is the maximum duration for a single enrichment API call.
	Timeout time.Duration

	// MinInterval is the minimum delay between consecutive API calls,
	// enforced by the enricher's rate limiter to respect provider quotas.
	MinInterval time.Duration
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderDeepSeek, ProviderClaude, ProviderNone:
	default:
		return fmt.Errorf("invalid provider: %s (must be deepseek, claude or none)", c.Provider)
	}

	if c.Provider != ProviderNone {
		if c.Model == "" {
			return fmt.Errorf("model cannot be empty")
		}
		if c.MaxTokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
		}
		if c.Timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
		}
		if c.MinInterval < 0 {
			return fmt.Errorf("min interval must be non-negative, got %v", c.MinInterval)
		}
	}

	return nil
}

// LoadConfig loads configuration from environment variables.
// Returns an error if the configuration is invalid (fail-closed behavior).
//
// Environment variables:
//   - ENRICHER_TYPE: "deepseek", "claude" or "none" (default: deepseek)
//   - ENRICHMENT_API_KEY: bearer token (empty means fallback-only mode)
//   - ENRICHMENT_BASE_URL: API endpoint override (deepseek default: https://api.deepseek.com/v1)
//   - ENRICHMENT_MODEL: model identifier (default: deepseek-chat)
//   - ENRICHMENT_MAX_TOKENS: response token cap (default: 600)
//   - ENRICHMENT_TIMEOUT: per-call timeout (default: 60s)
//   - ENRICHMENT_MIN_INTERVAL: minimum delay between calls (default: 500ms)
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Provider:    config.GetEnvString("ENRICHER_TYPE", ProviderDeepSeek),
		APIKey:      os.Getenv("ENRICHMENT_API_KEY"),
		BaseURL:     os.Getenv("ENRICHMENT_BASE_URL"),
		Model:       config.GetEnvString("ENRICHMENT_MODEL", "deepseek-chat"),
		MaxTokens:   600,
		Timeout:     60 * time.Second,
		MinInterval: 500 * time.Millisecond,
	}
	// The DeepSeek endpoint needs an explicit base URL; the Claude SDK
	// ships with its own and only honors an override.
	if cfg.BaseURL == "" && cfg.Provider == ProviderDeepSeek {
		cfg.BaseURL = "https://api.deepseek.com/v1"
	}
	if val := os.Getenv("ENRICHMENT_MAX_TOKENS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("invalid ENRICHMENT_MAX_TOKENS format: %s: %w", val, err)
		}
		cfg.MaxTokens = parsed
	}
	if val := os.Getenv("ENRICHMENT_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return nil, fmt.Errorf("invalid ENRICHMENT_TIMEOUT format: %s: %w", val, err)
		}
		cfg.Timeout = parsed
	}
	if val := os.Getenv("ENRICHMENT_MIN_INTERVAL"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return nil, fmt.Errorf("invalid ENRICHMENT_MIN_INTERVAL format: %s: %w", val, err)
		}
		cfg.MinInterval = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid enricher configuration: %w", err)
	}

	return cfg, nil
}
