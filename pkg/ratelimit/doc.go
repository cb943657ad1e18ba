// Package ratelimit paces job submission to the worker pool.
//
// TokenBucket wraps golang.org/x/time/rate behind the Limiter interface so
// the dispatcher can block on a context-aware Wait:
//
//	limiter := ratelimit.NewTokenBucket(50*time.Millisecond, 1)
//	for _, tag := range tags {
//	    if err := limiter.Wait(ctx); err != nil {
//	        break
//	    }
//	    pool.Submit(ctx, job)
//	}
package ratelimit
