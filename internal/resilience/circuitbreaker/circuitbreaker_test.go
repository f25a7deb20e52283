package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Name:             "test-circuit",
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

func failTimes(cb *CircuitBreaker, n int) {
	fetchErr := errors.New("connection refused")
	for i := 0; i < n; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, fetchErr
		})
	}
}

func TestConfig_ReadyToTrip(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name     string
		requests uint32
		failures uint32
		want     bool
	}{
		{"below sample floor", 4, 4, false},
		{"at floor below threshold", 5, 2, false},
		{"at floor at threshold", 5, 3, true},
		{"large sample above threshold", 100, 80, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := gobreaker.Counts{Requests: tt.requests, TotalFailures: tt.failures}
			assert.Equal(t, tt.want, cfg.readyToTrip(counts))
		})
	}
}

func TestCircuitBreaker_Execute(t *testing.T) {
	cb := New(testConfig())
	require.Equal(t, gobreaker.StateClosed, cb.State())

	result, err := cb.Execute(func() (interface{}, error) {
		return "feed body", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "feed body", result)

	fetchErr := errors.New("connection refused")
	_, err = cb.Execute(func() (interface{}, error) {
		return nil, fetchErr
	})
	assert.Equal(t, fetchErr, err, "callback errors pass through unchanged")
}

func TestCircuitBreaker_TripsOpenAndRejects(t *testing.T) {
	cb := New(testConfig())

	// Six failures clear MinRequests and the 60% threshold.
	failTimes(cb, 6)
	require.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Execute(func() (interface{}, error) {
		t.Error("callback must not run while the breaker is open")
		return nil, nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 100 * time.Millisecond
	cb := New(cfg)

	failTimes(cb, 6)
	require.Equal(t, gobreaker.StateOpen, cb.State())

	time.Sleep(150 * time.Millisecond)

	_, err := cb.Execute(func() (interface{}, error) {
		return "recovered", nil
	})
	require.NoError(t, err, "half-open request must be let through")
	assert.NotEqual(t, gobreaker.StateOpen, cb.State(),
		"breaker must leave Open after a successful half-open request")
}

func TestCircuitBreaker_StaysClosedBelowMinRequests(t *testing.T) {
	cfg := testConfig()
	cfg.MinRequests = 10
	cb := New(cfg)

	// Four failures are below the sample floor; 100% failure must not trip.
	failTimes(cb, 4)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestPresetConfigs(t *testing.T) {
	enrich := EnrichmentAPIConfig()
	assert.Equal(t, "enrichment-api", enrich.Name)
	assert.Equal(t, 0.6, enrich.FailureThreshold)

	feed := FeedFetchConfig()
	assert.Equal(t, "feed-fetch", feed.Name)
	assert.Equal(t, 0.7, feed.FailureThreshold)

	// Page fetching backs off for a full hour once tripped.
	page := PageFetchConfig()
	assert.Equal(t, "page-fetch", page.Name)
	assert.Equal(t, time.Hour, page.Timeout)
}
