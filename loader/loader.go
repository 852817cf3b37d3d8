// Package loader imports a directory from disk as a playground project.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexandro/playground-mcp/ignore"
	"github.com/lexandro/playground-mcp/language"
	"github.com/lexandro/playground-mcp/vfs"
)

// ErrSkipped is returned for files that are not imported as text.
var ErrSkipped = errors.New("file skipped")

// Stats summarises one import.
type Stats struct {
	Files    int
	Folders  int
	Bytes    int64
	Skipped  int
	Duration time.Duration
}

const workerCount = 8

type readJob struct {
	absPath string
	node    *vfs.Node
	parent  *vfs.Node
	size    int64
}

// LoadDir builds a project root from rootDir. Ignored, oversized and
// binary files are left out; folders are kept even when nothing inside
// them was imported.
func LoadDir(rootDir string, matcher *ignore.Matcher, logger *slog.Logger) (*vfs.Node, Stats, error) {
	start := time.Now()
	var stats Stats

	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, stats, fmt.Errorf("load project: %w", err)
	}
	if !info.IsDir() {
		return nil, stats, fmt.Errorf("load project: %s is not a directory", rootDir)
	}

	root := &vfs.Node{
		ID:        uuid.NewString(),
		Name:      filepath.Base(rootDir),
		Path:      vfs.RootPath,
		Kind:      vfs.KindFolder,
		Children:  []*vfs.Node{},
		CreatedAt: start,
		UpdatedAt: info.ModTime(),
	}
	folders := map[string]*vfs.Node{vfs.RootPath: root}
	var jobs []readJob

	err = filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == rootDir {
				return err
			}
			return nil
		}
		if path == rootDir {
			return nil
		}
		virtualPath, ok := VirtualPath(rootDir, path)
		if !ok {
			return nil
		}
		parent := folders[vfs.ParentPath(virtualPath)]
		if parent == nil {
			return nil
		}

		if d.IsDir() {
			if matcher.ShouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			folder := newNode(virtualPath, vfs.KindFolder, d, start)
			folder.Children = []*vfs.Node{}
			parent.Children = append(parent.Children, folder)
			folders[virtualPath] = folder
			stats.Folders++
			return nil
		}

		if !d.Type().IsRegular() || matcher.ShouldIgnore(path) {
			stats.Skipped++
			return nil
		}
		fi, err := d.Info()
		if err != nil || matcher.IsFileTooLarge(fi.Size()) {
			stats.Skipped++
			return nil
		}
		jobs = append(jobs, readJob{
			absPath: path,
			node:    newNode(virtualPath, vfs.KindFile, d, start),
			parent:  parent,
			size:    fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("load project: %w", err)
	}

	readAll(jobs, logger)

	for _, job := range jobs {
		if job.node == nil {
			stats.Skipped++
			continue
		}
		job.parent.Children = append(job.parent.Children, job.node)
		stats.Files++
		stats.Bytes += job.size
	}

	stats.Duration = time.Since(start)
	return root, stats, nil
}

// readAll fills the content of every job with a bounded worker pool. Jobs
// whose file could not be imported get a nil node.
func readAll(jobs []readJob, logger *slog.Logger) {
	indexes := make(chan int, 100)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				content, err := ReadText(jobs[i].absPath)
				if err != nil {
					logger.Debug("skipped file", "path", jobs[i].node.Path, "error", err)
					jobs[i].node = nil
					continue
				}
				jobs[i].node.Content = content
			}
		}()
	}
	for i := range jobs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
}

func newNode(virtualPath string, kind vfs.Kind, d os.DirEntry, created time.Time) *vfs.Node {
	updated := created
	if fi, err := d.Info(); err == nil {
		updated = fi.ModTime()
	}
	return &vfs.Node{
		ID:        uuid.NewString(),
		Name:      vfs.BaseName(virtualPath),
		Path:      virtualPath,
		Kind:      kind,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// ReadText reads a file that is going to be edited as text.
func ReadText(absPath string) (string, error) {
	data, err := readFileWithRetry(absPath)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	if language.IsBinaryContent(data) {
		return "", fmt.Errorf("%w: binary content", ErrSkipped)
	}
	return string(data), nil
}

// readFileWithRetry retries once after a short pause; editors on Windows
// briefly lock files while saving.
func readFileWithRetry(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		time.Sleep(50 * time.Millisecond)
		return os.ReadFile(path)
	}
	return data, nil
}

// VirtualPath maps a path under rootDir to its project path. ok is false
// for paths outside rootDir.
func VirtualPath(rootDir, absPath string) (string, bool) {
	rel, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return vfs.RootPath, true
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return "/" + rel, true
}
