package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobradar/internal/queue"
)

// fakeSource serves a fixed list of claims, then reports empty.
type fakeSource struct {
	mu     sync.Mutex
	claims []*queue.Claim
	acked  []string
	failed []string
}

func (s *fakeSource) ClaimTask(_ context.Context, _ queue.Kind) (*queue.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.claims) == 0 {
		return nil, queue.ErrEmpty
	}
	c := s.claims[0]
	s.claims = s.claims[1:]
	return c, nil
}

func (s *fakeSource) Ack(_ context.Context, c *queue.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acked = append(s.acked, c.Token)
	return nil
}

func (s *fakeSource) Fail(_ context.Context, c *queue.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, c.Token)
	return nil
}

func (s *fakeSource) ReapExpired(_ context.Context) (int, error) { return 0, nil }

func (s *fakeSource) drained() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.claims) == 0
}

type handlerFunc func(context.Context, queue.Task) error

func (f handlerFunc) Handle(ctx context.Context, t queue.Task) error { return f(ctx, t) }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestPoolAcksSuccessAndFailsErrors(t *testing.T) {
	source := &fakeSource{claims: []*queue.Claim{
		{Token: "ok", Task: queue.Task{Kind: queue.KindFetch, ATS: "lever", Company: "good"}},
		{Token: "bad", Task: queue.Task{Kind: queue.KindFetch, ATS: "lever", Company: "bad"}},
	}}
	handler := handlerFunc(func(_ context.Context, task queue.Task) error {
		if task.Company == "bad" {
			return errors.New("boom")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(source, queue.KindFetch, handler, 2)
	pool.idleWait = time.Millisecond

	done := make(chan error, 1)
	go func() { done <- pool.Run(ctx) }()

	waitFor(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return len(source.acked) == 1 && len(source.failed) == 1
	})
	cancel()

	assert.NoError(t, <-done, "cancellation is a clean shutdown")
	assert.Equal(t, []string{"ok"}, source.acked)
	assert.Equal(t, []string{"bad"}, source.failed)
}

func TestPoolIdlesWhenEmpty(t *testing.T) {
	source := &fakeSource{}
	handler := handlerFunc(func(context.Context, queue.Task) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(source, queue.KindExtract, handler, 1)
	pool.idleWait = time.Millisecond

	done := make(chan error, 1)
	go func() { done <- pool.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
	assert.True(t, source.drained())
}
