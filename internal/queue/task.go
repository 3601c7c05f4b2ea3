// Package queue implements the durable work queue backing the pipeline:
// Redis lists per priority band with lease-based claims, idempotent enqueue,
// and at-least-once delivery.
package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind is the type of work a task carries.
type Kind string

const (
	// KindFetch pulls a (company, ats) board from its platform API.
	KindFetch Kind = "fetch"
	// KindExtract runs LLM extraction over a set of fetched postings.
	KindExtract Kind = "extract"
)

// Band is a priority band. Lower is served first; tasks that exhaust fast
// retries are demoted so persistently failing pairs never starve healthy work.
type Band int

const (
	// BandNormal is the default band for freshly dispatched work.
	BandNormal Band = 0
	// BandRetryLower holds work that failed once at normal priority.
	BandRetryLower Band = 1
	// BandRetryLowest holds work that keeps failing; it is never discarded.
	BandRetryLowest Band = 2
)

// Bands lists all bands in service order.
func Bands() []Band {
	return []Band{BandNormal, BandRetryLower, BandRetryLowest}
}

// Demote returns the next lower band, saturating at BandRetryLowest.
func (b Band) Demote() Band {
	if b >= BandRetryLowest {
		return BandRetryLowest
	}
	return b + 1
}

// Task is one unit of work. Fetch tasks address a whole (company, ats) board;
// extract tasks additionally carry the job ids to process.
type Task struct {
	Kind       Kind      `json:"kind"`
	ATS        string    `json:"ats"`
	Company    string    `json:"company"`
	JobIDs     []string  `json:"job_ids,omitempty"`
	Band       Band      `json:"band"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// DedupKey identifies a task for idempotent enqueue: kind plus identity key.
// Extract tasks include their job ids so distinct batches coexist.
func (t Task) DedupKey() string {
	key := fmt.Sprintf("%s:%s:%s", t.Kind, t.ATS, t.Company)
	if len(t.JobIDs) > 0 {
		key += ":" + strings.Join(t.JobIDs, ",")
	}
	return key
}

// Marshal encodes the task payload for storage.
func (t Task) Marshal() (string, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal task: %w", err)
	}
	return string(b), nil
}

// UnmarshalTask decodes a stored task payload.
func UnmarshalTask(payload string) (Task, error) {
	var t Task
	if err := json.Unmarshal([]byte(payload), &t); err != nil {
		return Task{}, fmt.Errorf("unmarshal task: %w", err)
	}
	return t, nil
}
