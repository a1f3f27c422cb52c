package ai

import (
	"sync"
	"time"
)

const rateWindow = time.Minute

// callWindow is a sliding-window counter over outbound LLM calls. Denials are
// fail-fast: callers return a fallback result instead of queuing.
type callWindow struct {
	mu    sync.Mutex
	limit int
	calls []time.Time
	now   func() time.Time
}

func newCallWindow(limit int) *callWindow {
	return &callWindow{limit: limit, now: time.Now}
}

func (w *callWindow) prune(now time.Time) {
	cutoff := now.Add(-rateWindow)
	kept := w.calls[:0]
	for _, t := range w.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.calls = kept
}

// Allow reports whether another outbound call fits in the current window.
func (w *callWindow) Allow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(w.now())
	return len(w.calls) < w.limit
}

// Record registers an outbound call. Call it only when a real LLM request is
// about to be made, never on cache hits.
func (w *callWindow) Record() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, w.now())
}

// Recent returns the number of calls still inside the window.
func (w *callWindow) Recent() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(w.now())
	return len(w.calls)
}
