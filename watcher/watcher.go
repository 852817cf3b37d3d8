package watcher

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultInterval is the quiet period used for disk events.
const DefaultInterval = 100 * time.Millisecond

// IgnoreChecker decides which disk paths the watcher reports.
type IgnoreChecker interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
}

// Watcher reports changes below an imported project directory as debounced
// batches of absolute paths.
type Watcher struct {
	fsWatcher     *fsnotify.Watcher
	debouncer     *Debouncer
	ignoreChecker IgnoreChecker
	rootDir       string
	logger        *slog.Logger
	done          chan struct{}
	closeOnce     sync.Once
	closeErr      error
}

// NewWatcher watches rootDir and every directory below it that is not ignored.
func NewWatcher(rootDir string, ignoreChecker IgnoreChecker, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher:     fsWatcher,
		debouncer:     NewDebouncer(DefaultInterval),
		ignoreChecker: ignoreChecker,
		rootDir:       rootDir,
		logger:        logger,
		done:          make(chan struct{}),
	}
	if err := w.watchTree(rootDir, false); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// watchTree adds dir and its subdirectories. With report set, files found
// inside are reported as created; they may have been written before the
// watch on a new directory was in place.
func (w *Watcher) watchTree(dir string, report bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			if report && !w.ignoreChecker.ShouldIgnore(path) {
				w.debouncer.Add(path, OpCreate)
			}
			return nil
		}
		if path != w.rootDir && w.ignoreChecker.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if watchErr := w.fsWatcher.Add(path); watchErr != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
		}
		return nil
	})
}

// Events returns the channel of debounced batches.
func (w *Watcher) Events() <-chan []DebouncedEvent {
	return w.debouncer.Output()
}

// Start processes fsnotify events until Close. Call it in a goroutine.
func (w *Watcher) Start() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.ignoreChecker.ShouldIgnoreDir(path) {
				return
			}
			if err := w.watchTree(path, true); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	var op EventOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	// Removed paths can no longer be classified as files or folders, so
	// they are always reported and the workspace ignores unknown ones.
	if (op == OpCreate || op == OpWrite) && w.ignoreChecker.ShouldIgnore(path) {
		return
	}
	w.debouncer.Add(path, op)
}

// Close stops watching and drops events that have not been flushed. It is
// safe to call more than once and from several goroutines.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.debouncer.Stop()
		w.closeErr = w.fsWatcher.Close()
	})
	return w.closeErr
}
