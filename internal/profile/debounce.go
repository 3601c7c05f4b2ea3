package profile

import (
	"context"
	"sync"
	"time"
)

// flushTimeout bounds rebuilds that run during shutdown, after the parent
// context is already canceled.
const flushTimeout = 10 * time.Second

// Debouncer coalesces recompute requests so a burst of extraction-batch
// completions causes at most one profile rebuild per company per window.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]bool
	rebuild func(ctx context.Context, ats, company string)
	wg      sync.WaitGroup
}

// NewDebouncer constructs a Debouncer that invokes rebuild at most once per
// (ats, company) per window.
func NewDebouncer(window time.Duration, rebuild func(ctx context.Context, ats, company string)) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]bool),
		rebuild: rebuild,
	}
}

// Mark schedules a rebuild for the company. Calls arriving while one is
// already scheduled are absorbed; the rebuild runs once the window elapses.
func (d *Debouncer) Mark(ctx context.Context, ats, company string) {
	key := ats + ":" + company

	d.mu.Lock()
	if d.pending[key] {
		d.mu.Unlock()
		return
	}
	d.pending[key] = true
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		timer := time.NewTimer(d.window)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			// Shutdown before the window elapsed. The mark still represents
			// real job changes, so run the rebuild now on a detached context
			// rather than leave the profile stale.
			flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			d.rebuild(flushCtx, ats, company)
			cancel()
		case <-timer.C:
			d.rebuild(ctx, ats, company)
		}

		d.mu.Lock()
		delete(d.pending, key)
		d.mu.Unlock()
	}()
}

// Flush waits for all scheduled rebuilds to run. Used at shutdown so pending
// profile work is not lost: rebuilds whose window was cut short by
// cancellation still execute before Flush returns.
func (d *Debouncer) Flush() {
	d.wg.Wait()
}
