// Package scheduler wires up the cron job that periodically re-dispatches
// fetch work for every active company in the registry.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/jonathan/jobradar/internal/pipeline"
)

// Scheduler wraps robfig/cron and manages the dispatch loop.
type Scheduler struct {
	cron      *cron.Cron
	companies pipeline.CompanySource
	queue     pipeline.Enqueuer
	spec      string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(companies pipeline.CompanySource, q pipeline.Enqueuer, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cron.DefaultLogger)),
		companies: companies,
		queue:     q,
		spec:      fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one dispatch
// immediately so workers have tasks without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runDispatch(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runDispatch(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

func (s *Scheduler) runDispatch(ctx context.Context) {
	log.Println("[scheduler] Dispatch cycle started")

	queued, err := pipeline.DispatchFetch(ctx, s.companies, s.queue, 0)
	if err != nil {
		log.Printf("[scheduler] Dispatch error: %v", err)
		return
	}

	log.Printf("[scheduler] Dispatch cycle complete — %d task(s) queued", queued)
}
