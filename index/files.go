// Package index keeps searchable views of the project: a sorted path index
// for glob lookups and a full-text index over file contents.
package index

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Entry describes one indexed project file.
type Entry struct {
	Path         string    // project path, e.g. "/config/database.php"
	RelativePath string    // Path without the leading slash; the index key
	Language     string    // display name, e.g. "PHP"
	SizeBytes    int64     // content length in bytes
	LineCount    int       // number of lines
	UpdatedAt    time.Time // UpdatedAt of the node that was indexed
}

// RelativePath strips the leading slash of a project path.
func RelativePath(path string) string {
	return strings.TrimPrefix(path, "/")
}

// FileIndex maps relative paths to entries and keeps the keys sorted for
// ordered glob iteration.
type FileIndex struct {
	mu          sync.RWMutex
	entries     map[string]*Entry
	sortedPaths []string
}

// NewFileIndex creates an empty index.
func NewFileIndex() *FileIndex {
	return &FileIndex{entries: make(map[string]*Entry)}
}

// Put adds or replaces an entry.
func (fi *FileIndex) Put(entry *Entry) {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	if _, exists := fi.entries[entry.RelativePath]; !exists {
		i := sort.SearchStrings(fi.sortedPaths, entry.RelativePath)
		fi.sortedPaths = append(fi.sortedPaths, "")
		copy(fi.sortedPaths[i+1:], fi.sortedPaths[i:])
		fi.sortedPaths[i] = entry.RelativePath
	}
	fi.entries[entry.RelativePath] = entry
}

// Remove drops the entry for relativePath, if any.
func (fi *FileIndex) Remove(relativePath string) {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	if _, exists := fi.entries[relativePath]; !exists {
		return
	}
	delete(fi.entries, relativePath)

	i := sort.SearchStrings(fi.sortedPaths, relativePath)
	if i < len(fi.sortedPaths) && fi.sortedPaths[i] == relativePath {
		fi.sortedPaths = append(fi.sortedPaths[:i], fi.sortedPaths[i+1:]...)
	}
}

// Get returns the entry for relativePath, or nil.
func (fi *FileIndex) Get(relativePath string) *Entry {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	return fi.entries[relativePath]
}

// Count returns the number of entries.
func (fi *FileIndex) Count() int {
	fi.mu.RLock()
	defer fi.mu.RUnlock()
	return len(fi.entries)
}

// TotalSizeBytes sums the size of all entries.
func (fi *FileIndex) TotalSizeBytes() int64 {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	var total int64
	for _, e := range fi.entries {
		total += e.SizeBytes
	}
	return total
}

// LanguageCounts returns the number of entries per language.
func (fi *FileIndex) LanguageCounts() map[string]int {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	counts := make(map[string]int)
	for _, e := range fi.entries {
		counts[e.Language]++
	}
	return counts
}

// SearchByGlob returns up to maxResults entries, in path order, whose
// relative path matches a doublestar pattern. A leading slash in the
// pattern is ignored.
func (fi *FileIndex) SearchByGlob(pattern string, maxResults int) ([]*Entry, error) {
	if maxResults <= 0 {
		maxResults = 50
	}
	pattern = strings.TrimPrefix(strings.ReplaceAll(pattern, "\\", "/"), "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	fi.mu.RLock()
	defer fi.mu.RUnlock()

	var results []*Entry
	for _, path := range fi.sortedPaths {
		if len(results) >= maxResults {
			break
		}
		if ok, _ := doublestar.Match(pattern, path); ok {
			results = append(results, fi.entries[path])
		}
	}
	return results, nil
}

// All returns every entry in path order.
func (fi *FileIndex) All() []*Entry {
	fi.mu.RLock()
	defer fi.mu.RUnlock()

	out := make([]*Entry, 0, len(fi.sortedPaths))
	for _, path := range fi.sortedPaths {
		out = append(out, fi.entries[path])
	}
	return out
}

// Clear removes every entry.
func (fi *FileIndex) Clear() {
	fi.mu.Lock()
	defer fi.mu.Unlock()

	fi.entries = make(map[string]*Entry)
	fi.sortedPaths = nil
}
