// Package pipeline wires the queue, the ATS adapters, the LLM extractor, and
// the database into the two worker loops that move a posting from platform
// API to structured row.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/jobradar/internal/ats"
	"github.com/jonathan/jobradar/internal/queue"
	"github.com/jonathan/jobradar/internal/retry"
)

// FetchStore is the slice of the database the fetch worker writes to.
type FetchStore interface {
	UpsertFetched(ctx context.Context, p ats.RawPosting) error
	FilterUnparsed(ctx context.Context, atsName, company string, jobIDs []string) ([]string, error)
}

// Enqueuer hands follow-up work to the queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, t queue.Task) (bool, error)
}

// FetchWorker handles fetch tasks: it pulls a company's board from its ATS
// platform, persists the raw postings, and enqueues extraction batches for
// everything not yet parsed.
type FetchWorker struct {
	store      FetchStore
	queue      Enqueuer
	batchSize  int
	policy     retry.Policy
	adapterFor func(ats.Platform) (ats.Adapter, error)
}

// NewFetchWorker builds a fetch worker on the given HTTP client.
func NewFetchWorker(client *ats.Client, store FetchStore, q Enqueuer, batchSize int) *FetchWorker {
	return &FetchWorker{
		store:     store,
		queue:     q,
		batchSize: batchSize,
		policy:    retry.Fetch(ats.IsRetryable),
		adapterFor: func(p ats.Platform) (ats.Adapter, error) {
			return ats.AdapterFor(p, client)
		},
	}
}

// Handle processes one fetch task. A nil return means the task is done and
// may be acked; an error sends it back through the queue's failure path.
func (w *FetchWorker) Handle(ctx context.Context, task queue.Task) error {
	platform, err := ats.ParsePlatform(task.ATS)
	if err != nil {
		// Malformed task: retrying cannot help, treat as done.
		log.Printf("fetch: dropping task with unknown platform %q", task.ATS)
		return nil
	}
	adapter, err := w.adapterFor(platform)
	if err != nil {
		log.Printf("fetch: dropping task, no adapter for %q", task.ATS)
		return nil
	}

	var postings []ats.RawPosting
	err = w.policy.Do(ctx, func(ctx context.Context) error {
		var listErr error
		postings, listErr = adapter.ListPostings(ctx, task.Company)
		return listErr
	})
	if err != nil {
		if ats.IsNotFound(err) {
			// Board gone or company slug wrong. Zero postings is a valid
			// outcome, not a reason to keep the task in flight.
			log.Printf("fetch: %s/%s board not found", task.ATS, task.Company)
			return nil
		}
		return fmt.Errorf("fetch %s/%s: %w", task.ATS, task.Company, err)
	}

	jobIDs := make([]string, 0, len(postings))
	for _, p := range postings {
		if err := w.store.UpsertFetched(ctx, p); err != nil {
			return fmt.Errorf("persist %s/%s: %w", task.ATS, task.Company, err)
		}
		jobIDs = append(jobIDs, p.ExternalID)
	}
	log.Printf("fetch: %s/%s stored %d postings", task.ATS, task.Company, len(postings))

	pending, err := w.store.FilterUnparsed(ctx, task.ATS, task.Company, jobIDs)
	if err != nil {
		return fmt.Errorf("filter unparsed %s/%s: %w", task.ATS, task.Company, err)
	}
	return w.enqueueBatches(ctx, task, pending)
}

func (w *FetchWorker) enqueueBatches(ctx context.Context, task queue.Task, jobIDs []string) error {
	size := w.batchSize
	if size <= 0 {
		size = 1
	}
	for start := 0; start < len(jobIDs); start += size {
		end := start + size
		if end > len(jobIDs) {
			end = len(jobIDs)
		}
		t := queue.Task{
			Kind:    queue.KindExtract,
			ATS:     task.ATS,
			Company: task.Company,
			JobIDs:  jobIDs[start:end],
			Band:    queue.BandNormal,
		}
		if _, err := w.queue.Enqueue(ctx, t); err != nil {
			return fmt.Errorf("enqueue extract batch for %s/%s: %w", task.ATS, task.Company, err)
		}
	}
	return nil
}
