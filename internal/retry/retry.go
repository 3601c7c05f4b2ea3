// Package retry provides a declarative retry policy with exponential backoff
// and jitter. Workers apply a Policy uniformly; adapters never retry or sleep
// on their own.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Policy describes how an operation is retried.
type Policy struct {
	MaxAttempts int                    // total attempts, including the first
	Base        float64                // backoff base in seconds; delay = Base^attempt
	Retryable   func(error) bool       // which failures warrant a retry
	Jitter      func() float64         // uniform [0,1) seconds added to each delay
	Sleep       func(context.Context, time.Duration) error // overridable in tests
}

// Fetch is the stock policy for ATS fetches: 5 attempts with base 1.5, so the
// deterministic delays are 1.5s, 2.25s, 3.375s, 5.06s, 7.59s before jitter.
func Fetch(retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: 5,
		Base:        1.5,
		Retryable:   retryable,
		Jitter:      rand.Float64,
		Sleep:       sleepCtx,
	}
}

// Delay returns the backoff duration after the given 1-based attempt:
// Base^attempt seconds plus jitter.
func (p Policy) Delay(attempt int) time.Duration {
	secs := math.Pow(p.Base, float64(attempt))
	if p.Jitter != nil {
		secs += p.Jitter()
	}
	return time.Duration(secs * float64(time.Second))
}

// Do runs fn up to MaxAttempts times, sleeping Delay(attempt) between
// attempts. A non-retryable error or a cancelled context returns immediately.
// Returns the last error when all attempts fail.
func (p Policy) Do(ctx context.Context, fn func(context.Context) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}
		if sleepErr := sleep(ctx, p.Delay(attempt)); sleepErr != nil {
			return sleepErr
		}
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
