package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lexandro/playground-mcp/index"
	"github.com/lexandro/playground-mcp/language"
	"github.com/lexandro/playground-mcp/vfs"
	"github.com/lexandro/playground-mcp/workspace"
)

// SyncResult holds the outcome of one index sync.
type SyncResult struct {
	MissingFiles  int // files in the project but not in the index
	StaleFiles    int // files in the index but no longer in the project
	ModifiedFiles int // files whose UpdatedAt or size changed
	Duration      time.Duration
}

// Changed reports whether the sync touched the indexes.
func (r SyncResult) Changed() bool {
	return r.MissingFiles+r.StaleFiles+r.ModifiedFiles > 0
}

// indexSyncer keeps the search indexes in step with the workspace. Syncs are
// skipped while the workspace version is unchanged.
type indexSyncer struct {
	ws           *workspace.Workspace
	fileIndex    *index.FileIndex
	contentIndex *index.ContentIndex
	logger       *slog.Logger

	mu      sync.Mutex
	synced  bool
	version uint64
}

func newIndexSyncer(ws *workspace.Workspace, fileIndex *index.FileIndex, contentIndex *index.ContentIndex, logger *slog.Logger) *indexSyncer {
	return &indexSyncer{ws: ws, fileIndex: fileIndex, contentIndex: contentIndex, logger: logger}
}

// Sync brings the indexes up to date with the current project.
func (s *indexSyncer) Sync() SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := s.ws.Version()
	if s.synced && version == s.version {
		return SyncResult{}
	}
	result := syncIndexes(s.ws.Tree().Root(), s.fileIndex, s.contentIndex, s.logger)
	s.synced = true
	s.version = version

	if result.Changed() {
		s.logger.Info("index sync complete",
			"missing", result.MissingFiles,
			"stale", result.StaleFiles,
			"modified", result.ModifiedFiles,
			"version", version,
			"duration", result.Duration,
		)
	}
	return result
}

// syncIndexes compares the project below root with the indexes and fixes
// every difference.
func syncIndexes(
	root *vfs.Node,
	fileIndex *index.FileIndex,
	contentIndex *index.ContentIndex,
	logger *slog.Logger,
) SyncResult {
	start := time.Now()
	var result SyncResult

	projectFiles := make(map[string]*vfs.Node)
	for _, file := range vfs.Files(root) {
		projectFiles[index.RelativePath(file.Path)] = file
	}

	for _, entry := range fileIndex.All() {
		if _, exists := projectFiles[entry.RelativePath]; !exists {
			fileIndex.Remove(entry.RelativePath)
			if err := contentIndex.RemoveFile(entry.RelativePath); err != nil {
				logger.Warn("sync: failed to drop stale file", "path", entry.Path, "error", err)
			}
			result.StaleFiles++
		}
	}

	for relPath, file := range projectFiles {
		indexed := fileIndex.Get(relPath)
		switch {
		case indexed == nil:
			if indexFile(file, fileIndex, contentIndex, logger) {
				result.MissingFiles++
			}
		case !indexed.UpdatedAt.Equal(file.UpdatedAt) || indexed.SizeBytes != int64(len(file.Content)):
			if indexFile(file, fileIndex, contentIndex, logger) {
				result.ModifiedFiles++
			}
		}
	}

	result.Duration = time.Since(start)
	return result
}

// indexFile writes one project file into both indexes.
func indexFile(file *vfs.Node, fileIndex *index.FileIndex, contentIndex *index.ContentIndex, logger *slog.Logger) bool {
	relPath := index.RelativePath(file.Path)
	lang := language.DisplayName(file.Path)

	if err := contentIndex.IndexFile(relPath, file.Content, lang); err != nil {
		logger.Warn("sync: failed to index file", "path", file.Path, "error", err)
		return false
	}
	fileIndex.Put(&index.Entry{
		Path:         file.Path,
		RelativePath: relPath,
		Language:     lang,
		SizeBytes:    int64(len(file.Content)),
		LineCount:    strings.Count(file.Content, "\n") + 1,
		UpdatedAt:    file.UpdatedAt,
	})
	return true
}
