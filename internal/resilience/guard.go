package resilience

import (
	"context"
	"errors"
	"log/slog"

	"htc-intelligence/internal/resilience/circuitbreaker"
	"htc-intelligence/internal/resilience/retry"

	"github.com/sony/gobreaker"
)

// Guard bundles the circuit breaker and retry schedule protecting one class
// of outbound call.
type Guard struct {
	Service string
	Breaker *circuitbreaker.CircuitBreaker
	Retry   retry.Config
}

// NewGuard wires a breaker and a retry schedule under the service name used
// in logs.
func NewGuard(service string, cb circuitbreaker.Config, rc retry.Config) Guard {
	return Guard{Service: service, Breaker: circuitbreaker.New(cb), Retry: rc}
}

// Do runs fn through the retry schedule with every attempt gated by the
// breaker. While the breaker is open, attempts fail fast with
// gobreaker.ErrOpenState, which the retry layer treats as non-retryable.
func Do[T any](ctx context.Context, g Guard, url string, fn func() (T, error)) (T, error) {
	var result T
	err := retry.WithBackoff(ctx, g.Retry, func() error {
		v, execErr := g.Breaker.Execute(func() (interface{}, error) {
			return fn()
		})
		if execErr != nil {
			if errors.Is(execErr, gobreaker.ErrOpenState) {
				slog.Warn("circuit breaker open, request rejected",
					slog.String("service", g.Service),
					slog.String("url", url),
					slog.String("state", g.Breaker.State().String()))
			}
			return execErr
		}
		result = v.(T)
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
