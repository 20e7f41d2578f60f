package search

import (
	"strings"
	"sync"
	"time"
)

// Debounce defaults: wait for a quiet period after the last keystroke
// and never fire on fewer than MinQueryLen characters.
const (
	DefaultQuiet = 300 * time.Millisecond
	MinQueryLen  = 3
)

// Debouncer coalesces a stream of query updates into one search per
// quiet period. Every update replaces the pending timer, so only the
// last query within the window fires.
type Debouncer struct {
	Quiet  time.Duration
	MinLen int
	Fire   func(query string)

	mu    sync.Mutex
	timer *time.Timer
}

// Update registers a new query string. Queries shorter than the minimum
// cancel any pending fire without scheduling a new one.
func (d *Debouncer) Update(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	query = strings.TrimSpace(query)
	minLen := d.MinLen
	if minLen <= 0 {
		minLen = MinQueryLen
	}
	if len(query) < minLen {
		return
	}

	quiet := d.Quiet
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	d.timer = time.AfterFunc(quiet, func() { d.Fire(query) })
}

// Stop cancels any pending fire.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
