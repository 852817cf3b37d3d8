package workspace

import (
	"errors"

	"github.com/lexandro/playground-mcp/vfs"
)

// ErrInvalidSelection is returned when activating a path that is not open.
var ErrInvalidSelection = errors.New("path is not an open document")

// OpenSet tracks the open documents in the order they were opened, plus
// the active one. It is not safe for concurrent use; Workspace guards it.
type OpenSet struct {
	paths  []string
	active string
}

// NewOpenSet creates a set holding paths, with active selected.
func NewOpenSet(active string, paths ...string) OpenSet {
	s := OpenSet{}
	for _, p := range paths {
		if !s.Contains(p) {
			s.paths = append(s.paths, p)
		}
	}
	if s.Contains(active) {
		s.active = active
	}
	return s
}

// Open appends path if it is not open yet and activates it either way.
func (s *OpenSet) Open(path string) {
	if !s.Contains(path) {
		s.paths = append(s.paths, path)
	}
	s.active = path
}

// Close removes path. When path was active, the most recently opened
// remaining document becomes active (or none if the set is now empty).
func (s *OpenSet) Close(path string) bool {
	return s.removeIf(func(p string) bool { return p == path })
}

// Remove closes path and every open document below it.
func (s *OpenSet) Remove(path string) bool {
	return s.removeIf(func(p string) bool { return vfs.IsWithin(p, path) })
}

func (s *OpenSet) removeIf(match func(string) bool) bool {
	kept := s.paths[:0:0]
	for _, p := range s.paths {
		if !match(p) {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(s.paths) {
		return false
	}
	s.paths = kept
	if s.active != "" && match(s.active) {
		s.active = ""
		if len(kept) > 0 {
			s.active = kept[len(kept)-1]
		}
	}
	return true
}

// SetActive activates an open document. An empty path clears the active
// document.
func (s *OpenSet) SetActive(path string) error {
	if path == "" {
		s.active = ""
		return nil
	}
	if !s.Contains(path) {
		return ErrInvalidSelection
	}
	s.active = path
	return nil
}

// Rename rewrites oldPath, and any open document below it, in place.
func (s *OpenSet) Rename(oldPath, newPath string) bool {
	changed := false
	for i, p := range s.paths {
		if vfs.IsWithin(p, oldPath) {
			s.paths[i] = newPath + p[len(oldPath):]
			changed = true
		}
	}
	if s.active != "" && vfs.IsWithin(s.active, oldPath) {
		s.active = newPath + s.active[len(oldPath):]
	}
	return changed
}

// Contains reports whether path is open.
func (s *OpenSet) Contains(path string) bool {
	for _, p := range s.paths {
		if p == path {
			return true
		}
	}
	return false
}

// Paths returns a copy of the open documents in open order.
func (s *OpenSet) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Active returns the active document, or "" when none is.
func (s *OpenSet) Active() string { return s.active }
