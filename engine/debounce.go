package engine

import (
	"context"
	"sync"
	"time"

	vskema "github.com/reoring/vskema"
)

// Debouncer coalesces async rule calls per key. A call waits for its window;
// a newer call for the same key arriving meanwhile displaces it, and the
// displaced call returns vskema.ErrSuperseded without running. Different keys
// never interact. The zero value is not usable; call NewDebouncer.
type Debouncer struct {
	mu      sync.Mutex
	pending map[string]*debounceEntry
}

type debounceEntry struct {
	superseded chan struct{}
}

// NewDebouncer returns an empty debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{pending: make(map[string]*debounceEntry)}
}

// Do waits wait, then runs fn unless a newer call for key arrived first. A
// non-positive wait runs fn immediately. Cancelling ctx during the wait
// returns ctx.Err() and leaves the registry consistent.
func (d *Debouncer) Do(ctx context.Context, key string, wait time.Duration, fn func(context.Context) (vskema.AsyncOutcome, error)) (vskema.AsyncOutcome, error) {
	if wait <= 0 {
		return fn(ctx)
	}

	ent := &debounceEntry{superseded: make(chan struct{})}
	d.mu.Lock()
	if prev, ok := d.pending[key]; ok {
		close(prev.superseded)
	}
	d.pending[key] = ent
	d.mu.Unlock()
	defer d.release(key, ent)

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ent.superseded:
		return vskema.AsyncOutcome{}, vskema.ErrSuperseded
	case <-ctx.Done():
		return vskema.AsyncOutcome{}, ctx.Err()
	case <-t.C:
	}

	// From here on the call is committed; a newer call starts its own window.
	d.release(key, ent)
	return fn(ctx)
}

// Pending returns the number of calls currently waiting out a window.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// release drops key only while ent still owns it.
func (d *Debouncer) release(key string, ent *debounceEntry) {
	d.mu.Lock()
	if d.pending[key] == ent {
		delete(d.pending, key)
	}
	d.mu.Unlock()
}
