// Package runner implements the playground "Run" action: it picks the file
// to run, feeds it through the extractor after a short artificial delay,
// and narrates the run on the console.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lexandro/playground-mcp/console"
	"github.com/lexandro/playground-mcp/extract"
	"github.com/lexandro/playground-mcp/vfs"
	"github.com/lexandro/playground-mcp/workspace"
)

const (
	DefaultDelay     = 500 * time.Millisecond
	DefaultCacheSize = 128
)

// ErrNoTarget is returned when the file to run is missing or empty.
var ErrNoTarget = errors.New("nothing to run")

// Options configures a Runner. Zero values select the defaults.
type Options struct {
	Entry     string
	Delay     time.Duration
	CacheSize int
	Now       func() time.Time
}

// Result is the outcome of one run.
type Result struct {
	Path        string    `json:"path"`
	Output      string    `json:"output"`
	Passthrough bool      `json:"passthrough"`
	Fallback    bool      `json:"fallback"`
	Cached      bool      `json:"cached"`
	RanAt       time.Time `json:"ranAt"`
}

// Runner is safe for concurrent use; concurrent runs are serialised.
type Runner struct {
	ws     *workspace.Workspace
	sink   *console.Sink
	logger *slog.Logger

	entry string
	delay time.Duration
	now   func() time.Time
	cache *lru.Cache[string, extract.Result]

	runMu sync.Mutex

	mu      sync.Mutex
	last    *Result
	pending *time.Timer
	closed  bool
}

// New creates a runner over ws that reports to sink.
func New(ws *workspace.Workspace, sink *console.Sink, logger *slog.Logger, opts Options) (*Runner, error) {
	if opts.Entry == "" {
		opts.Entry = vfs.DefaultEntryPath
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cache, err := lru.New[string, extract.Result](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create extraction cache: %w", err)
	}

	return &Runner{
		ws:     ws,
		sink:   sink,
		logger: logger,
		entry:  opts.Entry,
		delay:  opts.Delay,
		now:    opts.Now,
		cache:  cache,
	}, nil
}

// Entry returns the fallback path run when no file is active.
func (r *Runner) Entry() string { return r.entry }

// Target returns the path the next run will execute: the active document
// when it is a file, otherwise the entry path.
func (r *Runner) Target() string {
	if active := r.ws.Active(); active != "" {
		if _, ok := r.ws.File(active); ok {
			return active
		}
	}
	return r.entry
}

// Run clears the console and runs the target. It blocks for the run delay;
// cancelling ctx abandons the run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	r.sink.Clear()
	r.sink.Append(console.KindInfo, "Running PHP...")

	if r.delay > 0 {
		timer := time.NewTimer(r.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}

	target := r.Target()
	file, ok := r.ws.File(target)
	if !ok || file.Content == "" {
		r.sink.Append(console.KindError, fmt.Sprintf("No %s file found", target))
		return nil, fmt.Errorf("%w: %s", ErrNoTarget, target)
	}

	start := time.Now()
	now := r.now()
	key := strconv.Itoa(now.Year()) + "\x00" + file.Content

	extracted, cached := r.cache.Get(key)
	if !cached {
		extracted = extract.Run(file.Content, now)
		r.cache.Add(key, extracted)
	}

	result := &Result{
		Path:        target,
		Output:      extracted.Output,
		Passthrough: extracted.Passthrough,
		Fallback:    extracted.Fallback,
		Cached:      cached,
		RanAt:       now,
	}

	r.mu.Lock()
	r.last = result
	r.mu.Unlock()

	r.sink.Append(console.KindOutput, "Execution completed")
	r.sink.Append(console.KindInfo, fmt.Sprintf("Output: %d characters", len(result.Output)))
	r.logger.Info("run completed",
		"path", target,
		"outputLength", len(result.Output),
		"fallback", result.Fallback,
		"cached", cached,
		"elapsed", time.Since(start),
	)
	return result, nil
}

// Last returns the most recent successful run, or nil.
func (r *Runner) Last() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Schedule runs once after delay, replacing any run scheduled earlier.
func (r *Runner) Schedule(ctx context.Context, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if r.pending != nil {
		r.pending.Stop()
	}
	r.pending = time.AfterFunc(delay, func() {
		if _, err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Warn("scheduled run failed", "error", err)
		}
	})
}

// Close drops a pending scheduled run and refuses new ones.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
}
