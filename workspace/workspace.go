// Package workspace is the playground session: the current document tree,
// the open documents, and the explorer selection, kept consistent with each
// other across mutations.
package workspace

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lexandro/playground-mcp/vfs"
	"github.com/lexandro/playground-mcp/watcher"
)

var (
	// ErrNotFound is returned when a path that must exist does not.
	ErrNotFound = errors.New("no such path")
	// ErrProjectReplaced is returned by the epoch-checked mutations.
	ErrProjectReplaced = errors.New("project was replaced")
)

// Notifier receives one event per changed path.
type Notifier interface {
	Add(path string, op watcher.EventOp)
}

// Workspace is safe for concurrent use.
type Workspace struct {
	mu       sync.RWMutex
	tree     *vfs.Tree
	docs     OpenSet
	selected string
	version  uint64
	// epoch changes only when Reset or Load replace the whole project.
	epoch uint64

	treeOpts []vfs.Option
	notifier Notifier
}

// New creates a workspace holding the default project. notifier may be nil.
func New(notifier Notifier, opts ...vfs.Option) *Workspace {
	w := &Workspace{treeOpts: opts, notifier: notifier}
	w.resetLocked()
	return w
}

func (w *Workspace) notify(events ...watcher.DebouncedEvent) {
	if w.notifier == nil {
		return
	}
	for _, e := range events {
		w.notifier.Add(e.Path, e.Op)
	}
}

// commitLocked installs next as the current tree. It reports false when
// next is the current tree, meaning the mutation did not apply.
func (w *Workspace) commitLocked(next *vfs.Tree) bool {
	if next == w.tree {
		return false
	}
	w.tree = next
	w.version++
	return true
}

// Epoch identifies the current project. It changes on Reset and Load but
// not on edits.
func (w *Workspace) Epoch() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.epoch
}

// Tree returns the current tree. Tree values are immutable.
func (w *Workspace) Tree() *vfs.Tree {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tree
}

// Version counts applied tree mutations since the workspace was created.
func (w *Workspace) Version() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.version
}

// File returns the file at path.
func (w *Workspace) File(path string) (*vfs.Node, bool) {
	n := w.Tree().Find(path)
	if !n.IsFile() {
		return nil, false
	}
	return n, true
}

// Content returns the content of the file at path, or "" when there is none.
func (w *Workspace) Content(path string) string {
	if n, ok := w.File(path); ok {
		return n.Content
	}
	return ""
}

// Create adds an empty file or folder and returns its path. ok is false
// when nothing was created.
func (w *Workspace) Create(parentPath, name string, kind vfs.Kind) (path string, ok bool) {
	w.mu.Lock()
	next, path := w.tree.Create(parentPath, name, kind)
	ok = w.commitLocked(next)
	w.mu.Unlock()

	if ok {
		w.notify(watcher.DebouncedEvent{Path: path, Op: watcher.OpCreate})
	}
	return path, ok
}

// UpdateContent replaces the content of an existing file.
func (w *Workspace) UpdateContent(path, content string) bool {
	w.mu.Lock()
	ok := w.commitLocked(w.tree.Update(path, content))
	w.mu.Unlock()

	if ok {
		w.notify(watcher.DebouncedEvent{Path: path, Op: watcher.OpWrite})
	}
	return ok
}

// Put writes content to path, creating the file and any missing parent
// folders. It fails when a path segment is taken by a node of the other
// kind.
func (w *Workspace) Put(path, content string) (bool, error) {
	if _, err := w.put(path, content, nil); err != nil {
		return false, err
	}
	return true, nil
}

// Write is Put for callers that need to know whether the file was new.
// The existence check and the write happen under one lock.
func (w *Workspace) Write(path, content string) (created bool, err error) {
	op, err := w.put(path, content, nil)
	if err != nil {
		return false, err
	}
	return op == watcher.OpCreate, nil
}

// PutAt is Put that fails with ErrProjectReplaced when the project was
// reset or loaded since epoch was read.
func (w *Workspace) PutAt(epoch uint64, path, content string) error {
	_, err := w.put(path, content, &epoch)
	return err
}

func (w *Workspace) put(path, content string, epoch *uint64) (watcher.EventOp, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if path == "" || path[0] != '/' || segments[0] == "" {
		return 0, fmt.Errorf("invalid file path %q", path)
	}

	w.mu.Lock()
	if epoch != nil && *epoch != w.epoch {
		w.mu.Unlock()
		return 0, ErrProjectReplaced
	}
	next := w.tree
	parent := vfs.RootPath
	for _, seg := range segments[:len(segments)-1] {
		current := vfs.JoinPath(parent, seg)
		switch n := next.Find(current); {
		case n == nil:
			var created string
			if next, created = next.Create(parent, seg, vfs.KindFolder); created == "" {
				w.mu.Unlock()
				return 0, fmt.Errorf("cannot create folder %s", current)
			}
		case !n.IsFolder():
			w.mu.Unlock()
			return 0, fmt.Errorf("%s is a file, not a folder", current)
		}
		parent = current
	}

	name := segments[len(segments)-1]
	op := watcher.OpWrite
	switch n := next.Find(path); {
	case n == nil:
		var created string
		if next, created = next.Create(parent, name, vfs.KindFile); created == "" {
			w.mu.Unlock()
			return 0, fmt.Errorf("cannot create file %s", path)
		}
		op = watcher.OpCreate
	case !n.IsFile():
		w.mu.Unlock()
		return 0, fmt.Errorf("%s is a folder, not a file", path)
	}
	next = next.Update(path, content)
	ok := w.commitLocked(next)
	w.mu.Unlock()

	if ok {
		w.notify(watcher.DebouncedEvent{Path: path, Op: op})
	}
	return op, nil
}

// Delete removes path and everything below it, closing affected documents
// and clearing the selection when it pointed inside the removed subtree.
func (w *Workspace) Delete(path string) bool {
	ok, _ := w.delete(path, nil)
	return ok
}

// DeleteAt is Delete that fails with ErrProjectReplaced when the project
// was reset or loaded since epoch was read.
func (w *Workspace) DeleteAt(epoch uint64, path string) (bool, error) {
	return w.delete(path, &epoch)
}

func (w *Workspace) delete(path string, epoch *uint64) (bool, error) {
	w.mu.Lock()
	if epoch != nil && *epoch != w.epoch {
		w.mu.Unlock()
		return false, ErrProjectReplaced
	}
	ok := w.commitLocked(w.tree.Delete(path))
	if ok {
		w.docs.Remove(path)
		if w.selected != "" && vfs.IsWithin(w.selected, path) {
			w.selected = ""
		}
	}
	w.mu.Unlock()

	if ok {
		w.notify(watcher.DebouncedEvent{Path: path, Op: watcher.OpRemove})
	}
	return ok, nil
}

// Rename gives the node at path a new name and returns its new path. Open
// documents, the active document and the selection follow the node.
func (w *Workspace) Rename(path, newName string) (string, bool) {
	newPath := vfs.JoinPath(vfs.ParentPath(path), newName)

	w.mu.Lock()
	ok := w.commitLocked(w.tree.Rename(path, newName))
	if ok {
		w.docs.Rename(path, newPath)
		if w.selected != "" && vfs.IsWithin(w.selected, path) {
			w.selected = newPath + w.selected[len(path):]
		}
	}
	w.mu.Unlock()

	if !ok {
		return "", false
	}
	w.notify(
		watcher.DebouncedEvent{Path: path, Op: watcher.OpRename},
		watcher.DebouncedEvent{Path: newPath, Op: watcher.OpCreate},
	)
	return newPath, true
}

// Open opens the file at path and makes it active.
func (w *Workspace) Open(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.tree.Find(path).IsFile() {
		return fmt.Errorf("open %s: %w", path, ErrNotFound)
	}
	w.docs.Open(path)
	return nil
}

// Close closes path. It reports false when path was not open.
func (w *Workspace) Close(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.docs.Close(path)
}

// SetActive activates an already open document; "" clears it.
func (w *Workspace) SetActive(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.docs.SetActive(path)
}

// Select sets the explorer selection; "" clears it.
func (w *Workspace) Select(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if path != "" && w.tree.Find(path) == nil {
		return fmt.Errorf("select %s: %w", path, ErrNotFound)
	}
	w.selected = path
	return nil
}

// OpenDocuments returns the open documents in open order.
func (w *Workspace) OpenDocuments() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs.Paths()
}

// Active returns the active document, or "".
func (w *Workspace) Active() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs.Active()
}

// Selected returns the explorer selection, or "".
func (w *Workspace) Selected() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.selected
}

// Reset replaces the project with the default one and opens its entry file.
func (w *Workspace) Reset() {
	w.mu.Lock()
	w.resetLocked()
	w.version++
	w.epoch++
	w.mu.Unlock()

	w.notify(watcher.DebouncedEvent{Path: vfs.RootPath, Op: watcher.OpCreate})
}

func (w *Workspace) resetLocked() {
	w.tree = vfs.NewDefaultTree(w.treeOpts...)
	w.docs = NewOpenSet(vfs.DefaultEntryPath, vfs.DefaultEntryPath)
	w.selected = vfs.DefaultEntryPath
}

// Load replaces the whole project with root. Nothing is open or selected
// afterwards.
func (w *Workspace) Load(root *vfs.Node) error {
	if err := vfs.ValidateRoot(root); err != nil {
		return fmt.Errorf("load project: %w", err)
	}

	w.mu.Lock()
	w.tree = vfs.NewTree(root, w.treeOpts...)
	w.docs = OpenSet{}
	w.selected = ""
	w.version++
	w.epoch++
	w.mu.Unlock()

	w.notify(watcher.DebouncedEvent{Path: vfs.RootPath, Op: watcher.OpCreate})
	return nil
}

// Export returns the current root. The returned nodes must not be modified.
func (w *Workspace) Export() *vfs.Node {
	return w.Tree().Root()
}
