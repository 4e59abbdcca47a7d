package watch

import (
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// Batch describes the events coalesced into one debounced callback.
type Batch struct {
	// Last is the path of the most recent event.
	Last string
	// Paths is the number of distinct paths that changed.
	Paths int
}

// Debouncer coalesces rapid events into a single callback invocation that
// fires once no event has arrived for the configured interval.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func(Batch)
	last     string
	pending  map[string]struct{}
}

// NewDebouncer creates a debouncer that waits for interval of quiet before
// firing callback.
func NewDebouncer(interval time.Duration, callback func(Batch)) *Debouncer {
	return &Debouncer{
		interval: interval,
		callback: callback,
		pending:  make(map[string]struct{}),
	}
}

// Trigger records an event for path and restarts the quiet period.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.last = path
	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("debouncer callback panicked", slog.Any("error", r))
		}
	}()

	d.mu.Lock()
	b := Batch{Last: d.last, Paths: len(d.pending)}
	clear(d.pending)
	d.mu.Unlock()

	if b.Paths == 0 {
		return
	}

	d.callback(b)
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	clear(d.pending)
}

// String renders the batch as a trigger label for status lines.
func (b Batch) String() string {
	if b.Paths <= 1 {
		return b.Last
	}

	return b.Last + " (+" + strconv.Itoa(b.Paths-1) + " more)"
}
