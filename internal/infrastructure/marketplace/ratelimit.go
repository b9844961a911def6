package marketplace

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter gates outbound marketplace calls. The external API enforces a
// per-minute budget per credential; every request path blocks on Wait
// before hitting the wire so pagination loops and batch fans stay under
// the budget without per-call sleeps.
type Limiter interface {
	Wait(ctx context.Context) error
}

// minuteLimiter adapts a token bucket to the per-minute call budget
type minuteLimiter struct {
	limiter *rate.Limiter
}

// NewMinuteLimiter returns a Limiter that admits callsPerMinute calls
// per minute with a burst of one
func NewMinuteLimiter(callsPerMinute int) Limiter {
	if callsPerMinute <= 0 {
		callsPerMinute = 1
	}
	return &minuteLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(callsPerMinute)/60.0), 1),
	}
}

// Wait blocks until the next call is admitted or the context is done
func (m *minuteLimiter) Wait(ctx context.Context) error {
	return m.limiter.Wait(ctx)
}

// unlimited admits every call immediately; used in tests
type unlimited struct{}

// NewUnlimited returns a Limiter that never blocks
func NewUnlimited() Limiter {
	return unlimited{}
}

// Wait implements Limiter
func (unlimited) Wait(ctx context.Context) error {
	return ctx.Err()
}
