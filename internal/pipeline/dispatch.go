package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/jobradar/internal/db"
	"github.com/jonathan/jobradar/internal/queue"
)

// CompanySource lists the companies to dispatch fetch work for.
type CompanySource interface {
	ListActiveCompanies(ctx context.Context) ([]db.Company, error)
}

// DispatchFetch enqueues one fetch task per active company. Idempotent
// enqueue makes repeated dispatch cycles safe: a company whose fetch is
// already pending or in flight is skipped. limit <= 0 means no limit.
// Returns the number of tasks actually queued.
func DispatchFetch(ctx context.Context, companies CompanySource, q Enqueuer, limit int) (int, error) {
	list, err := companies.ListActiveCompanies(ctx)
	if err != nil {
		return 0, fmt.Errorf("list companies: %w", err)
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	queued := 0
	for _, c := range list {
		t := queue.Task{
			Kind:    queue.KindFetch,
			ATS:     c.ATS,
			Company: c.Slug,
			Band:    queue.BandNormal,
		}
		ok, err := q.Enqueue(ctx, t)
		if err != nil {
			return queued, fmt.Errorf("enqueue fetch for %s/%s: %w", c.ATS, c.Slug, err)
		}
		if ok {
			queued++
		}
	}
	log.Printf("dispatch: queued %d of %d companies", queued, len(list))
	return queued, nil
}
