// Package circuitbreaker wraps github.com/sony/gobreaker for the pipeline's
// three outbound call classes: feed fetching, article page fetching and
// enrichment API calls. A tripped breaker fails fast instead of piling up
// timeouts against a struggling upstream.
package circuitbreaker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds the knobs for one breaker instance.
type Config struct {
	// Name identifies the breaker in logs.
	Name string

	// MaxRequests caps the requests let through in half-open state.
	MaxRequests uint32

	// Interval is the closed-state window after which counts reset.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// FailureThreshold is the failure ratio that trips the breaker,
	// e.g. 0.6 trips at a 60% failure rate.
	FailureThreshold float64

	// MinRequests is the minimum sample size before the ratio counts.
	MinRequests uint32
}

// readyToTrip opens the breaker once the failure ratio over a sufficient
// sample crosses the threshold.
func (c Config) readyToTrip(counts gobreaker.Counts) bool {
	if counts.Requests < c.MinRequests {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= c.FailureThreshold
}

// EnrichmentAPIConfig tunes the breaker for enrichment API calls. The
// enricher degrades to canned insights when the breaker is open, so it can
// trip relatively eagerly.
func EnrichmentAPIConfig() Config {
	return Config{
		Name:             "enrichment-api",
		MinRequests:      5,
		FailureThreshold: 0.6,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          time.Minute,
	}
}

// FeedFetchConfig tunes the breaker for RSS feed fetching. Feeds are
// polled once per run, so the thresholds are more tolerant.
func FeedFetchConfig() Config {
	return Config{
		Name:             "feed-fetch",
		MinRequests:      10,
		FailureThreshold: 0.7,
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          2 * time.Minute,
	}
}

// PageFetchConfig tunes the breaker for article page fetching. A source
// redesign breaks every selector at once, so a tripped breaker stays open
// for a full hour rather than hammering a site that stopped matching.
func PageFetchConfig() Config {
	return Config{
		Name:             "page-fetch",
		MinRequests:      5,
		FailureThreshold: 0.8,
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          time.Hour,
	}
}

// CircuitBreaker is a thin wrapper that fixes the trip rule and logs
// state transitions.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
}

// New creates a circuit breaker with the given configuration.
func New(cfg Config) *CircuitBreaker {
	return &CircuitBreaker{breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:          cfg.Name,
		MaxRequests:   cfg.MaxRequests,
		Interval:      cfg.Interval,
		Timeout:       cfg.Timeout,
		ReadyToTrip:   cfg.readyToTrip,
		OnStateChange: logStateChange,
	})}
}

func logStateChange(name string, from, to gobreaker.State) {
	slog.Warn("circuit breaker state changed",
		slog.String("circuit", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()))
}

// Execute runs fn through the breaker. When the breaker is open it
// returns gobreaker.ErrOpenState without calling fn.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

// State returns the breaker's current state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}
