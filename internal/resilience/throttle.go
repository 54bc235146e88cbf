package resilience

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle token-bucket-limits upstream HTTP calls made by C2 and C5, a
// second line of defense alongside the per-question worker semaphore: it
// bounds the global in-flight-upstream-request rate from spec §5 across
// every question in flight, not just the shards of one.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle builds a Throttle allowing up to ratePerSecond sustained
// requests with a burst of the same size.
func NewThrottle(ratePerSecond int) *Throttle {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond)}
}

// Wait blocks until a token is available or ctx is done, whichever comes
// first - so a caller already past its own deadline never blocks the
// throttle longer than its remaining budget allows.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
