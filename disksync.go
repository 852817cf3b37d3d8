package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lexandro/playground-mcp/ignore"
	"github.com/lexandro/playground-mcp/loader"
	"github.com/lexandro/playground-mcp/watcher"
	"github.com/lexandro/playground-mcp/workspace"
)

// diskApplyResult counts what a batch of disk events did to the workspace.
type diskApplyResult struct {
	Written int
	Removed int
	Skipped int
	// Replaced is set when the project was reset or loaded after the
	// watcher started; the batch was dropped.
	Replaced bool
}

// handleWatcherEvents applies disk batches to the workspace until the
// watcher closes or the project it was started for is replaced.
func handleWatcherEvents(
	fileWatcher *watcher.Watcher,
	ws *workspace.Workspace,
	epoch uint64,
	matcher *ignore.Matcher,
	logger *slog.Logger,
) {
	for batch := range fileWatcher.Events() {
		result := applyDiskEvents(batch, ws, epoch, matcher, logger)
		if result.Replaced {
			logger.Info("project replaced, stopping disk watcher", "dir", matcher.RootDir())
			fileWatcher.Close()
			return
		}
		logger.Debug("applied disk changes",
			"events", len(batch),
			"written", result.Written,
			"removed", result.Removed,
			"skipped", result.Skipped,
		)
	}
}

// applyDiskEvents mirrors one batch of disk changes into the workspace
// loaded at epoch. Workspace edits are never written back to disk.
func applyDiskEvents(
	batch []watcher.DebouncedEvent,
	ws *workspace.Workspace,
	epoch uint64,
	matcher *ignore.Matcher,
	logger *slog.Logger,
) diskApplyResult {
	var result diskApplyResult
	if ws.Epoch() != epoch {
		return diskApplyResult{Skipped: len(batch), Replaced: true}
	}
	rootDir := matcher.RootDir()

	for _, event := range batch {
		virtualPath, ok := loader.VirtualPath(rootDir, event.Path)
		if !ok || virtualPath == "/" {
			result.Skipped++
			continue
		}

		switch event.Op {
		case watcher.OpRemove, watcher.OpRename:
			removed, err := ws.DeleteAt(epoch, virtualPath)
			if errors.Is(err, workspace.ErrProjectReplaced) {
				result.Replaced = true
				return result
			}
			if removed {
				logger.Debug("removed from project", "path", virtualPath)
				result.Removed++
			}
			continue
		}

		if ignore.IsIgnoreFile(filepath.Base(event.Path)) {
			matcher.Reload()
			logger.Info("reloaded ignore rules", "trigger", filepath.Base(event.Path))
		}

		info, err := os.Stat(event.Path)
		if err != nil || info.IsDir() || matcher.ShouldIgnore(event.Path) || matcher.IsFileTooLarge(info.Size()) {
			result.Skipped++
			continue
		}

		content, err := loader.ReadText(event.Path)
		if err != nil {
			if !errors.Is(err, loader.ErrSkipped) {
				logger.Warn("failed to read changed file", "path", event.Path, "error", err)
			}
			result.Skipped++
			continue
		}
		if file, exists := ws.File(virtualPath); exists && file.Content == content {
			continue
		}

		if err := ws.PutAt(epoch, virtualPath, content); err != nil {
			if errors.Is(err, workspace.ErrProjectReplaced) {
				result.Replaced = true
				return result
			}
			logger.Warn("failed to apply disk change", "path", virtualPath, "error", err)
			result.Skipped++
			continue
		}
		logger.Debug("updated project from disk", "path", virtualPath, "op", event.Op)
		result.Written++
	}
	return result
}
