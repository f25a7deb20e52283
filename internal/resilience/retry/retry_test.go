package retry

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   10 * time.Millisecond,
		MaxDelay:       100 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

func TestWithBackoff(t *testing.T) {
	tests := []struct {
		name         string
		failUntil    int // attempts that fail before success; -1 fails forever
		err          error
		wantAttempts int
		wantErr      bool
	}{
		{
			name:         "first attempt succeeds",
			failUntil:    0,
			wantAttempts: 1,
		},
		{
			name:         "transient failure then success",
			failUntil:    2,
			err:          &HTTPError{StatusCode: 500, Message: "Server Error"},
			wantAttempts: 3,
		},
		{
			name:         "budget exhausted",
			failUntil:    -1,
			err:          &HTTPError{StatusCode: 503, Message: "Service Unavailable"},
			wantAttempts: 3,
			wantErr:      true,
		},
		{
			name:         "client error aborts immediately",
			failUntil:    -1,
			err:          &HTTPError{StatusCode: 400, Message: "Bad Request"},
			wantAttempts: 1,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := WithBackoff(context.Background(), fastConfig(), func() error {
				attempts++
				if tt.failUntil < 0 || attempts <= tt.failUntil {
					return tt.err
				}
				return nil
			})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantAttempts, attempts)
		})
	}
}

func TestWithBackoff_WrapsLastError(t *testing.T) {
	feedErr := &HTTPError{StatusCode: 502, Message: "Bad Gateway"}
	err := WithBackoff(context.Background(), fastConfig(), func() error {
		return feedErr
	})
	assert.ErrorIs(t, err, feedErr, "the last attempt's error must stay unwrappable")
}

func TestWithBackoff_ContextCanceledDuringWait(t *testing.T) {
	cfg := fastConfig()
	cfg.InitialDelay = 50 * time.Millisecond
	cfg.MaxAttempts = 5

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := WithBackoff(ctx, cfg, func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return &HTTPError{StatusCode: 500, Message: "Server Error"}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, attempts, 2, "cancellation fires during the wait after attempt 2")
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil error", nil, false},
		{"context canceled", context.Canceled, false},
		{"context deadline exceeded", context.DeadlineExceeded, false},
		{"HTTP 500", &HTTPError{StatusCode: 500}, true},
		{"HTTP 503", &HTTPError{StatusCode: 503}, true},
		{"HTTP 429 rate limit", &HTTPError{StatusCode: 429}, true},
		{"HTTP 408 request timeout", &HTTPError{StatusCode: 408}, true},
		{"HTTP 400", &HTTPError{StatusCode: 400}, false},
		{"HTTP 404", &HTTPError{StatusCode: 404}, false},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"connection reset", syscall.ECONNRESET, true},
		{"timed out", syscall.ETIMEDOUT, true},
		{"network unreachable", syscall.ENETUNREACH, true},
		{"parse error", errors.New("invalid character"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestPresetConfigs(t *testing.T) {
	assert.Equal(t, 5, FeedFetchConfig().MaxAttempts)

	enrich := EnrichmentAPIConfig()
	assert.Equal(t, 3, enrich.MaxAttempts)
	assert.Equal(t, 2*time.Second, enrich.InitialDelay)

	page := PageFetchConfig()
	assert.Equal(t, 3, page.MaxAttempts)
	assert.Equal(t, 10*time.Second, page.MaxDelay)
}

func TestHTTPError_Error(t *testing.T) {
	err := &HTTPError{StatusCode: 502, Message: "Bad Gateway"}
	assert.Equal(t, "HTTP 502: Bad Gateway", err.Error())
}

func TestConfig_DelayBefore(t *testing.T) {
	cfg := Config{
		InitialDelay:   10 * time.Millisecond,
		MaxDelay:       50 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0, // exact schedule
	}

	assert.Equal(t, 10*time.Millisecond, cfg.delayBefore(1))
	assert.Equal(t, 20*time.Millisecond, cfg.delayBefore(2))
	assert.Equal(t, 40*time.Millisecond, cfg.delayBefore(3))
	assert.Equal(t, 50*time.Millisecond, cfg.delayBefore(4), "growth caps at MaxDelay")
	assert.Equal(t, 50*time.Millisecond, cfg.delayBefore(10))
}

func TestConfig_DelayBefore_Jitter(t *testing.T) {
	cfg := Config{
		InitialDelay:   100 * time.Millisecond,
		MaxDelay:       time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}

	base := 100 * time.Millisecond
	seen := make(map[time.Duration]bool)
	for i := 0; i < 10; i++ {
		d := cfg.delayBefore(1)
		require.GreaterOrEqual(t, d, base)
		require.LessOrEqual(t, d, time.Duration(float64(base)*1.2))
		seen[d] = true
	}
	assert.GreaterOrEqual(t, len(seen), 2, "jitter must vary across calls")
}
