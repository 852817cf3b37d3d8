// Package watcher batches change notifications. Project mutations and disk
// events both feed a Debouncer, which emits one sorted batch per quiet
// period so indexing and auto-run happen once per burst of edits.
package watcher

import (
	"sort"
	"sync"
	"time"
)

// DebouncedEvent is one path in a batch and the net operation on it.
type DebouncedEvent struct {
	Path string
	Op   EventOp
}

// EventOp is the kind of change.
type EventOp int

const (
	OpCreate EventOp = iota
	OpWrite
	OpRemove
	OpRename
)

func (op EventOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	}
	return "unknown"
}

// merge folds a new operation into the pending one for the same path.
func merge(pending, next EventOp) EventOp {
	switch {
	case pending == OpCreate && next == OpWrite:
		return OpCreate
	case pending == OpRemove && next == OpCreate:
		return OpWrite
	}
	return next
}

// Debouncer collects events and emits them as one batch once no new event
// has arrived for the interval. Events for the same path are merged.
type Debouncer struct {
	interval time.Duration
	output   chan []DebouncedEvent

	mu      sync.Mutex
	events  map[string]EventOp
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer with the given quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		events:   make(map[string]EventOp),
		output:   make(chan []DebouncedEvent, 16),
	}
}

// Output returns the channel that receives batches, sorted by path.
func (d *Debouncer) Output() <-chan []DebouncedEvent {
	return d.output
}

// Add records an event and restarts the quiet period.
func (d *Debouncer) Add(path string, op EventOp) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if pending, ok := d.events[path]; ok {
		op = merge(pending, op)
	}
	d.events[path] = op

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// Stop discards pending events. Later calls to Add are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.events = make(map[string]EventOp)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.events) == 0 {
		d.mu.Unlock()
		return
	}
	batch := make([]DebouncedEvent, 0, len(d.events))
	for path, op := range d.events {
		batch = append(batch, DebouncedEvent{Path: path, Op: op})
	}
	d.events = make(map[string]EventOp)
	d.mu.Unlock()

	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	d.output <- batch
}
