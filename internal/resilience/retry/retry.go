// Package retry provides retry with exponential backoff and jitter for the
// pipeline's outbound calls. Only transient failures are retried; context
// cancellation and client errors abort immediately.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Config holds the backoff schedule for one call class.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the exponential growth.
	MaxDelay time.Duration

	// Multiplier grows the delay between attempts.
	Multiplier float64

	// JitterFraction is the fraction of the delay added as random jitter
	// (0.0 to 1.0).
	JitterFraction float64
}

// delayBefore returns the wait before the given retry, counted from 1.
// The schedule is InitialDelay * Multiplier^(retry-1), capped at MaxDelay,
// plus jitter so sources polled together do not retry in lockstep.
func (c Config) delayBefore(retry int) time.Duration {
	d := float64(c.InitialDelay)
	for i := 1; i < retry; i++ {
		d *= c.Multiplier
	}
	delay := time.Duration(d)
	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}

	frac := c.JitterFraction
	if frac <= 0 {
		return delay
	}
	if frac > 1.0 {
		frac = 1.0
	}
	// #nosec G404 -- backoff jitter does not need cryptographic randomness.
	return delay + time.Duration(rand.Float64()*float64(delay)*frac)
}

// schedule builds a doubling backoff with 10% jitter, the shape every
// call class here shares.
func schedule(attempts int, initial, max time.Duration) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialDelay:   initial,
		MaxDelay:       max,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// FeedFetchConfig retries feed fetches aggressively: a feed that fails this
// run is not seen again until the next scheduled crawl.
func FeedFetchConfig() Config { return schedule(5, 1*time.Second, 30*time.Second) }

// EnrichmentAPIConfig retries enrichment calls sparingly; each attempt
// costs tokens and the enricher has a deterministic fallback anyway.
func EnrichmentAPIConfig() Config { return schedule(3, 2*time.Second, 10*time.Second) }

// PageFetchConfig retries article page fetches moderately. A page that
// will not load degrades the item to its feed summary, not to a failure.
func PageFetchConfig() Config { return schedule(3, 1*time.Second, 10*time.Second) }

// WithBackoff runs fn until it succeeds, returns a non-retryable error, or
// the attempt budget is spent. The wait between attempts honors ctx.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error

	for attempt := 1; ; attempt++ {
		if lastErr = fn(); lastErr == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		switch {
		case !IsRetryable(lastErr):
			slog.Warn("non-retryable error, aborting",
				slog.Int("attempt", attempt), slog.Any("error", lastErr))
			return lastErr
		case attempt >= cfg.MaxAttempts:
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
		}

		delay := cfg.delayBefore(attempt)
		slog.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", lastErr))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}
	}
}

// retryableSyscalls are the connection-level failures worth another attempt.
var retryableSyscalls = []error{
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
	syscall.ETIMEDOUT,
	syscall.ENETUNREACH,
}

// IsRetryable reports whether the error is worth another attempt: network
// timeouts, connection-level syscall errors, and HTTP 5xx/429/408.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	for _, sysErr := range retryableSyscalls {
		if errors.Is(err, sysErr) {
			return true
		}
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 && httpErr.StatusCode < 600 ||
			httpErr.StatusCode == http.StatusTooManyRequests ||
			httpErr.StatusCode == http.StatusRequestTimeout
	}

	return false
}

// HTTPError carries a response status code so IsRetryable can classify it.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
