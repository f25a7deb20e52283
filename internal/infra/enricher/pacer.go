package enricher

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// pacer enforces the minimum inter-call delay toward the enrichment API.
// A burst of one means at most one call per interval and never more than
// one in flight from a single pacer.
type pacer struct {
	limiter *rate.Limiter
}

// newPacer creates a pacer with the given minimum interval between calls.
// A non-positive interval disables pacing.
func newPacer(minInterval time.Duration) *pacer {
	if minInterval <= 0 {
		return &pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &pacer{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// wait blocks until the next call is allowed or the context is cancelled.
func (p *pacer) wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
