// Package ratelimit paces outbound DNS queries so bulk runs stay below the
// informal rate limits of public resolvers and the ASN lookup service.
package ratelimit

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps a token-bucket rate limiter and adds ±20% jitter to wait intervals.
// A nil *Limiter, or one created with a non-positive rate, never blocks.
type Limiter struct {
	inner *rate.Limiter
}

// New creates a Limiter with the given queries-per-second rate and burst capacity.
// qps <= 0 disables limiting. burst is raised to 1 when smaller.
func New(qps float64, burst int) *Limiter {
	if qps <= 0 {
		return &Limiter{}
	}
	return &Limiter{inner: rate.NewLimiter(rate.Limit(qps), max(1, burst))}
}

// Wait blocks until a query may be sent. Returns ctx.Err() if the context
// is cancelled before the token is granted.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l == nil || l.inner == nil {
		return nil
	}
	res := l.inner.Reserve()
	if !res.OK() {
		return ctx.Err()
	}

	delay := res.Delay()
	if delay <= 0 {
		return nil
	}

	jitter := time.Duration(float64(delay) * 0.20 * (rand.Float64()*2 - 1)) //nolint:gosec // non-cryptographic random is fine for jitter
	delay = max(0, delay+jitter)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		res.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
