package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errAlways = errors.New("boom")

func noSleep(_ context.Context, _ time.Duration) error { return nil }

func TestDelay_DeterministicComponentNonDecreasing(t *testing.T) {
	p := Policy{Base: 1.5, Jitter: func() float64 { return 0 }}

	expected := []time.Duration{
		1500 * time.Millisecond,
		2250 * time.Millisecond,
		3375 * time.Millisecond,
	}
	var prev time.Duration
	for attempt := 1; attempt <= 5; attempt++ {
		d := p.Delay(attempt)
		assert.GreaterOrEqual(t, d, prev, "delay must be non-decreasing")
		if attempt <= len(expected) {
			assert.Equal(t, expected[attempt-1], d)
		}
		prev = d
	}
	// Ceiling delays for attempts 4 and 5 land near 5.06s and 7.59s.
	assert.InDelta(t, 5.0625, p.Delay(4).Seconds(), 0.001)
	assert.InDelta(t, 7.59375, p.Delay(5).Seconds(), 0.001)
}

func TestDelay_JitterAdded(t *testing.T) {
	p := Policy{Base: 1.5, Jitter: func() float64 { return 0.5 }}
	assert.Equal(t, 2*time.Second, p.Delay(1))
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	p := Policy{
		MaxAttempts: 5,
		Base:        1.5,
		Retryable:   func(error) bool { return true },
		Jitter:      func() float64 { return 0 },
		Sleep:       noSleep,
	}

	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errAlways
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	slept := []time.Duration{}
	p := Policy{
		MaxAttempts: 5,
		Base:        1.5,
		Retryable:   func(error) bool { return true },
		Jitter:      func() float64 { return 0 },
		Sleep: func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	}

	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errAlways
	})
	require.ErrorIs(t, err, errAlways)
	assert.Equal(t, 5, calls)
	assert.Len(t, slept, 4, "no sleep after the final attempt")
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	p := Policy{
		MaxAttempts: 5,
		Base:        1.5,
		Retryable:   func(error) bool { return false },
		Sleep:       noSleep,
	}

	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errAlways
	})
	require.ErrorIs(t, err, errAlways)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{
		MaxAttempts: 5,
		Base:        1.5,
		Retryable:   func(error) bool { return true },
		Jitter:      func() float64 { return 0 },
		Sleep: func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}

	err := p.Do(ctx, func(context.Context) error { return errAlways })
	require.ErrorIs(t, err, context.Canceled)
}
