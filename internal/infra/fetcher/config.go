package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"htc-intelligence/pkg/config"
)

// ExcerptConfig controls article excerpt fetching. Excerpts give the
// enricher more context than the feed summary alone, so the limits here
// trade excerpt quality against crawl latency and the safety of fetching
// arbitrary article URLs.
type ExcerptConfig struct {
	// Enabled toggles excerpt fetching. When false the feed summary is
	// used directly, so the feature can be turned off without a deploy.
	Enabled bool

	// MaxRunes caps the excerpt length in Unicode characters. The
	// enricher does not need the full article body.
	MaxRunes int

	// Timeout bounds a single article request. Keep it well under the
	// crawl run timeout.
	Timeout time.Duration

	// MaxBodySize caps the response body in bytes, enforced while
	// reading rather than trusting Content-Length.
	MaxBodySize int64

	// MaxRedirects bounds redirect chains. Every redirect target goes
	// through the same URL validation as the original link.
	MaxRedirects int

	// DenyPrivateIPs blocks URLs that resolve to private addresses.
	// Always true in production.
	DenyPrivateIPs bool
}

// DefaultConfig returns the excerpt fetching defaults: enabled, 1500 runes,
// 10s timeout, 10MB body cap, 5 redirects, private IPs denied.
func DefaultConfig() ExcerptConfig {
	return ExcerptConfig{
		Enabled:        true,
		MaxRunes:       1500,
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate checks the limits: MaxRunes and Timeout positive, MaxBodySize
// within 1KB-100MB, MaxRedirects within 0-10.
func (c *ExcerptConfig) Validate() error {
	if c.MaxRunes <= 0 {
		return fmt.Errorf("max runes must be positive, got %d", c.MaxRunes)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)
	maxBodySize := int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}

// LoadConfigFromEnv reads the EXCERPT_* environment variables over the
// defaults and validates the result. Unlike the worker configuration this
// is fail-closed: a malformed value is returned as an error rather than
// silently replaced, because a typo in a safety limit should not pass.
//
// Variables: EXCERPT_FETCH_ENABLED, EXCERPT_MAX_RUNES,
// EXCERPT_FETCH_TIMEOUT, EXCERPT_MAX_BODY_SIZE, EXCERPT_MAX_REDIRECTS,
// EXCERPT_DENY_PRIVATE_IPS.
func LoadConfigFromEnv() (ExcerptConfig, error) {
	cfg := DefaultConfig()

	cfg.Enabled = config.GetEnvBool("EXCERPT_FETCH_ENABLED", cfg.Enabled)

	if val := os.Getenv("EXCERPT_MAX_RUNES"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid EXCERPT_MAX_RUNES: %v", err)
		}
		cfg.MaxRunes = parsed
	}

	if val := os.Getenv("EXCERPT_FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid EXCERPT_FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("EXCERPT_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid EXCERPT_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}

	if val := os.Getenv("EXCERPT_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid EXCERPT_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}

	cfg.DenyPrivateIPs = config.GetEnvBool("EXCERPT_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
