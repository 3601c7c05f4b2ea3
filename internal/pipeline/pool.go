package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobradar/internal/queue"
)

// Handler processes one claimed task. A nil return acks the claim; an error
// routes it through the queue's failure path.
type Handler interface {
	Handle(ctx context.Context, task queue.Task) error
}

// TaskSource is the queue surface a pool consumes.
type TaskSource interface {
	ClaimTask(ctx context.Context, kind queue.Kind) (*queue.Claim, error)
	Ack(ctx context.Context, c *queue.Claim) error
	Fail(ctx context.Context, c *queue.Claim) error
	ReapExpired(ctx context.Context) (int, error)
}

const (
	defaultIdleWait   = time.Second
	defaultReapPeriod = 30 * time.Second
)

// Pool runs a fixed number of workers against one task kind, plus a reaper
// that returns expired leases to their bands.
type Pool struct {
	source   TaskSource
	kind     queue.Kind
	handler  Handler
	workers  int
	idleWait time.Duration
}

// NewPool builds a pool of n workers for the given kind.
func NewPool(source TaskSource, kind queue.Kind, handler Handler, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		source:   source,
		kind:     kind,
		handler:  handler,
		workers:  workers,
		idleWait: defaultIdleWait,
	}
}

// Run blocks until the context is canceled, claiming and handling tasks on
// every worker. Handler errors fail the claim; they never stop the pool.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return p.reapLoop(ctx)
	})
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			return p.workLoop(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (p *Pool) workLoop(ctx context.Context) error {
	for {
		claim, err := p.source.ClaimTask(ctx, p.kind)
		if err != nil {
			if errors.Is(err, queue.ErrEmpty) {
				if err := sleep(ctx, p.idleWait); err != nil {
					return err
				}
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("pool(%s): claim failed: %v", p.kind, err)
			if err := sleep(ctx, p.idleWait); err != nil {
				return err
			}
			continue
		}

		if err := p.handler.Handle(ctx, claim.Task); err != nil {
			log.Printf("pool(%s): task %s failed: %v", p.kind, claim.Task.DedupKey(), err)
			if failErr := p.source.Fail(ctx, claim); failErr != nil {
				log.Printf("pool(%s): requeue of %s failed: %v", p.kind, claim.Task.DedupKey(), failErr)
			}
			continue
		}
		if err := p.source.Ack(ctx, claim); err != nil {
			log.Printf("pool(%s): ack of %s failed: %v", p.kind, claim.Task.DedupKey(), err)
		}
	}
}

func (p *Pool) reapLoop(ctx context.Context) error {
	ticker := time.NewTicker(defaultReapPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := p.source.ReapExpired(ctx)
			if err != nil {
				log.Printf("pool(%s): reap failed: %v", p.kind, err)
				continue
			}
			if n > 0 {
				log.Printf("pool(%s): returned %d expired leases", p.kind, n)
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
