package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/jobradar/internal/db"
	"github.com/jonathan/jobradar/internal/llm"
	"github.com/jonathan/jobradar/internal/normalize"
	"github.com/jonathan/jobradar/internal/queue"
)

// MaxItemAttempts bounds how often a single posting is sent to the LLM
// before it is marked permanently failed.
const MaxItemAttempts = 3

// ExtractStore is the slice of the database the extract worker touches.
type ExtractStore interface {
	GetPostings(ctx context.Context, atsName, company string, jobIDs []string) ([]db.Posting, error)
	UpsertExtraction(ctx context.Context, atsName, company, jobID string, u db.ExtractionUpdate) error
	MarkExtractionFailed(ctx context.Context, atsName, company, jobID string) error
}

// ProfileNotifier receives a signal whenever a company's stored jobs changed
// and its profile should be recomputed.
type ProfileNotifier interface {
	Mark(ctx context.Context, ats, company string)
}

// ExtractWorker handles extract tasks: it builds a batch prompt from the
// stored raw descriptions, calls the LLM, and writes the validated fields
// back. A batch whose response breaks the one-object-per-posting contract is
// decomposed into single-posting tasks rather than retried wholesale.
type ExtractWorker struct {
	store  ExtractStore
	queue  Enqueuer
	llm    llm.Client
	notify ProfileNotifier
}

// NewExtractWorker builds an extract worker.
func NewExtractWorker(client llm.Client, store ExtractStore, q Enqueuer, notify ProfileNotifier) *ExtractWorker {
	return &ExtractWorker{store: store, queue: q, llm: client, notify: notify}
}

// Handle processes one extract task. A nil return acks the task; an error
// sends it back through the queue's failure path with a demoted band.
func (w *ExtractWorker) Handle(ctx context.Context, task queue.Task) error {
	postings, err := w.store.GetPostings(ctx, task.ATS, task.Company, task.JobIDs)
	if err != nil {
		return fmt.Errorf("load postings for %s/%s: %w", task.ATS, task.Company, err)
	}
	if len(postings) == 0 {
		log.Printf("extract: %s/%s batch has no stored postings, dropping", task.ATS, task.Company)
		return nil
	}

	items := make([]llm.BatchItem, len(postings))
	for i, p := range postings {
		items[i] = llm.BatchItem{JobID: p.JobID, Title: p.Title, RawDescription: p.RawDescription}
	}

	raw, err := w.llm.GenerateJSON(ctx, llm.BuildBatchPrompt(items))
	if err != nil {
		// A multi-posting batch is never resubmitted as-is: a poison item
		// would drag its whole batch down on every retry. Split it into
		// single-posting tasks that each get their own attempts.
		if len(postings) > 1 {
			log.Printf("extract: %s/%s batch of %d llm call failed (%v), decomposing",
				task.ATS, task.Company, len(postings), err)
			return w.decompose(ctx, task, postings)
		}
		return w.failSingle(ctx, task, postings[0], fmt.Errorf("llm call for %s/%s: %w", task.ATS, task.Company, err))
	}

	fields, err := llm.ParseBatchResponse(raw, len(items))
	if err != nil {
		if len(postings) > 1 {
			log.Printf("extract: %s/%s batch of %d violated response contract (%v), decomposing",
				task.ATS, task.Company, len(postings), err)
			return w.decompose(ctx, task, postings)
		}
		return w.failSingle(ctx, task, postings[0], fmt.Errorf("parse response for %s/%s: %w", task.ATS, task.Company, err))
	}

	// The parsed array pairs with the postings by position.
	for i, p := range postings {
		upd := buildUpdate(fields[i])
		if err := w.store.UpsertExtraction(ctx, task.ATS, task.Company, p.JobID, upd); err != nil {
			return fmt.Errorf("persist extraction %s/%s/%s: %w", task.ATS, task.Company, p.JobID, err)
		}
	}
	log.Printf("extract: %s/%s parsed %d postings", task.ATS, task.Company, len(postings))
	if w.notify != nil {
		w.notify.Mark(ctx, task.ATS, task.Company)
	}
	return nil
}

// failSingle decides between requeueing and giving up on a single-posting
// task. One that has spent its attempts is marked failed in the database and
// acked; otherwise the task goes back to the queue.
func (w *ExtractWorker) failSingle(ctx context.Context, task queue.Task, p db.Posting, cause error) error {
	if task.Attempt+1 >= MaxItemAttempts {
		log.Printf("extract: %s/%s/%s failed after %d attempts: %v",
			task.ATS, task.Company, p.JobID, task.Attempt+1, cause)
		if err := w.store.MarkExtractionFailed(ctx, task.ATS, task.Company, p.JobID); err != nil {
			return err
		}
		return nil
	}
	return cause
}

// decompose replaces a failed batch with one fresh task per posting.
func (w *ExtractWorker) decompose(ctx context.Context, task queue.Task, postings []db.Posting) error {
	for _, p := range postings {
		t := queue.Task{
			Kind:    queue.KindExtract,
			ATS:     task.ATS,
			Company: task.Company,
			JobIDs:  []string{p.JobID},
			Band:    task.Band,
		}
		if _, err := w.queue.Enqueue(ctx, t); err != nil {
			return fmt.Errorf("enqueue single for %s/%s/%s: %w", task.ATS, task.Company, p.JobID, err)
		}
	}
	return nil
}

// buildUpdate normalizes raw LLM output into database-ready values.
func buildUpdate(f llm.ExtractedFields) db.ExtractionUpdate {
	min, max := normalize.Salary(f.SalaryMin, f.SalaryMax)
	return db.ExtractionUpdate{
		Department:      strings.ToLower(strings.TrimSpace(f.Department)),
		Seniority:       strings.ToLower(strings.TrimSpace(f.Seniority)),
		TechStack:       normalize.TechStack(f.TechStack),
		Skills:          normalize.StringSet(f.Skills),
		PainPoints:      normalize.StringSet(f.PainPoints),
		RemotePolicy:    string(normalize.MapRemotePolicy(f.RemotePolicy)),
		SalaryMin:       min,
		SalaryMax:       max,
		ExperienceYears: f.ExperienceYears,
		JobSummary:      strings.TrimSpace(f.JobSummary),
	}
}
