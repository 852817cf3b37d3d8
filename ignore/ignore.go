// Package ignore decides which files of an imported directory stay out of
// the playground project.
package ignore

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// DefaultMaxFileSize is the largest file imported when no limit is set.
const DefaultMaxFileSize int64 = 512 * 1024

// Matcher combines the default patterns, the project's ignore files and
// the user's exclude globs. Reload may run concurrently with lookups.
type Matcher struct {
	mu          sync.RWMutex
	rootDir     string
	ignoreFiles []gitignore.GitIgnore
	excludes    []string
	maxFileSize int64
}

// MatcherOptions configures a Matcher.
type MatcherOptions struct {
	RootDir     string
	Excludes    []string
	MaxFileSize int64
}

// NewMatcher creates a matcher rooted at options.RootDir.
func NewMatcher(options MatcherOptions) *Matcher {
	m := &Matcher{
		rootDir:     options.RootDir,
		excludes:    options.Excludes,
		maxFileSize: options.MaxFileSize,
	}
	if m.maxFileSize <= 0 {
		m.maxFileSize = DefaultMaxFileSize
	}
	m.ignoreFiles = loadIgnoreFiles(options.RootDir)
	return m
}

// RootDir returns the directory the matcher is rooted at.
func (m *Matcher) RootDir() string { return m.rootDir }

// ShouldIgnore reports whether absolutePath stays out of the project.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil {
		relativePath = absolutePath
	}
	relativePath = filepath.ToSlash(relativePath)

	if matchesDefaults(relativePath) || m.matchesExcludes(relativePath) {
		return true
	}

	isDir := false
	if info, err := os.Stat(absolutePath); err == nil {
		isDir = info.IsDir()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, gi := range m.ignoreFiles {
		if match := gi.Relative(relativePath, isDir); match != nil && match.Ignore() {
			return true
		}
	}
	return false
}

// ShouldIgnoreDir reports whether a directory should be skipped entirely.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	if alwaysSkippedDirs[filepath.Base(absolutePath)] {
		return true
	}
	return m.ShouldIgnore(absolutePath)
}

// IsFileTooLarge reports whether a file of size bytes exceeds the limit.
func (m *Matcher) IsFileTooLarge(size int64) bool {
	return size > m.maxFileSize
}

// MaxFileSize returns the configured size limit in bytes.
func (m *Matcher) MaxFileSize() int64 {
	return m.maxFileSize
}

// IsIgnoreFile reports whether name is one of the project ignore files.
func IsIgnoreFile(name string) bool {
	for _, f := range IgnoreFileNames {
		if name == f {
			return true
		}
	}
	return false
}

// Reload re-reads the project ignore files.
func (m *Matcher) Reload() {
	files := loadIgnoreFiles(m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ignoreFiles = files
}

func matchesDefaults(relativePath string) bool {
	segments := strings.Split(strings.ToLower(relativePath), "/")
	base := segments[len(segments)-1]

	for _, pattern := range DefaultIgnorePatterns {
		pattern = strings.ToLower(pattern)
		if !strings.ContainsAny(pattern, "*?[") {
			for _, seg := range segments {
				if seg == pattern {
					return true
				}
			}
			continue
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// matchesExcludes matches the user's globs against the relative path, and
// against the base name for patterns without a slash.
func (m *Matcher) matchesExcludes(relativePath string) bool {
	for _, pattern := range m.excludes {
		if ok, _ := doublestar.Match(pattern, relativePath); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, path.Base(relativePath)); ok {
				return true
			}
		}
	}
	return false
}

func loadIgnoreFiles(rootDir string) []gitignore.GitIgnore {
	var files []gitignore.GitIgnore
	for _, name := range IgnoreFileNames {
		if gi := loadIgnoreFile(filepath.Join(rootDir, name), rootDir); gi != nil {
			files = append(files, gi)
		}
	}
	return files
}

// loadIgnoreFile reads through an explicit handle so it is closed promptly
// on every platform.
func loadIgnoreFile(filePath, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()
	return gitignore.New(f, baseDir, nil)
}
