package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for pacing work submission
type Limiter interface {
	// Allow reports whether an event may happen now, consuming a token if so
	Allow() bool
	// Wait blocks until a token is available or ctx is done
	Wait(ctx context.Context) error
	// Reset refills the limiter to its burst size
	Reset()
}

// TokenBucket releases one token per interval up to a burst size. A zero
// interval disables pacing.
type TokenBucket struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	interval time.Duration
	burst    int
}

// NewTokenBucket creates a token bucket refilling one token every interval
func NewTokenBucket(interval time.Duration, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	tb := &TokenBucket{interval: interval, burst: burst}
	tb.limiter = tb.newLimiter()
	return tb
}

func (tb *TokenBucket) newLimiter() *rate.Limiter {
	limit := rate.Inf
	if tb.interval > 0 {
		limit = rate.Every(tb.interval)
	}
	return rate.NewLimiter(limit, tb.burst)
}

func (tb *TokenBucket) current() *rate.Limiter {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.limiter
}

// Allow checks if an event can proceed now
func (tb *TokenBucket) Allow() bool {
	return tb.current().Allow()
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait(ctx context.Context) error {
	return tb.current().Wait(ctx)
}

// Reset refills the bucket to its burst size
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.limiter = tb.newLimiter()
}

// Interval returns the refill interval
func (tb *TokenBucket) Interval() time.Duration {
	return tb.interval
}
