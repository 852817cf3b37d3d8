package vfs

import (
	"time"

	"github.com/google/uuid"
)

// Tree is an immutable version of the document store. Mutating methods
// return a new Tree that rebuilds only the spine from the root to the
// changed node; when a mutation does not apply they return the receiver
// itself, so callers detect no-ops with next == t.
type Tree struct {
	root  *Node
	now   func() time.Time
	newID func() string
}

// Option configures a Tree.
type Option func(*Tree)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(t *Tree) { t.now = now }
}

// WithIDGenerator overrides the node ID source.
func WithIDGenerator(newID func() string) Option {
	return func(t *Tree) { t.newID = newID }
}

// NewTree wraps an existing root. The root is not copied.
func NewTree(root *Node, opts ...Option) *Tree {
	t := &Tree{
		root:  root,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewDefaultTree returns a tree holding the default project.
func NewDefaultTree(opts ...Option) *Tree {
	t := NewTree(nil, opts...)
	t.root = DefaultProject(t.now(), t.newID)
	return t
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Find returns the node at path, or nil.
func (t *Tree) Find(path string) *Node { return FindByPath(t.root, path) }

func (t *Tree) derive(root *Node) *Tree {
	return &Tree{root: root, now: t.now, newID: t.newID}
}

// Create adds an empty file or folder named name under parentPath and
// returns the new tree with the created path. Nothing happens (and the
// returned path is empty) when the parent is not a folder, the name is not
// a single path segment, or the target path is already taken.
func (t *Tree) Create(parentPath, name string, kind Kind) (*Tree, string) {
	parent := t.Find(parentPath)
	if !parent.IsFolder() || !validName(name) || (kind != KindFile && kind != KindFolder) {
		return t, ""
	}
	newPath := JoinPath(parentPath, name)
	if t.Find(newPath) != nil {
		return t, ""
	}

	now := t.now()
	child := &Node{
		ID:        t.newID(),
		Name:      name,
		Path:      newPath,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if kind == KindFolder {
		child.Children = []*Node{}
	}

	root, ok := edit(t.root, parentPath, func(folder *Node) (*Node, bool) {
		next := *folder
		next.Children = append(append(make([]*Node, 0, len(folder.Children)+1), folder.Children...), child)
		next.UpdatedAt = now
		return &next, true
	})
	if !ok {
		return t, ""
	}
	return t.derive(root), newPath
}

// Update replaces the content of the file at path.
func (t *Tree) Update(path, content string) *Tree {
	root, ok := edit(t.root, path, func(file *Node) (*Node, bool) {
		if file.Kind != KindFile {
			return nil, false
		}
		next := *file
		next.Content = content
		next.UpdatedAt = t.now()
		return &next, true
	})
	if !ok {
		return t
	}
	return t.derive(root)
}

// Delete removes every node whose path is exactly path, at any depth.
// The root cannot be deleted.
func (t *Tree) Delete(path string) *Tree {
	if t.root == nil || path == RootPath || path == t.root.Path {
		return t
	}
	root, ok := prune(t.root, path, t.now())
	if !ok {
		return t
	}
	return t.derive(root)
}

// Rename gives the node at path a new last segment. Descendants of a
// renamed folder have their paths re-derived from the new folder path.
func (t *Tree) Rename(path, newName string) *Tree {
	node := t.Find(path)
	if node == nil || path == RootPath || !validName(newName) || node.Name == newName {
		return t
	}
	newPath := JoinPath(ParentPath(path), newName)
	if t.Find(newPath) != nil {
		return t
	}

	now := t.now()
	root, ok := edit(t.root, path, func(n *Node) (*Node, bool) {
		next := rebase(n, newPath)
		next.Name = newName
		next.UpdatedAt = now
		return next, true
	})
	if !ok {
		return t
	}
	return t.derive(root)
}

// edit applies fn to the first node at path and copies every ancestor on
// the way back up. Siblings are reused as-is.
func edit(node *Node, path string, fn func(*Node) (*Node, bool)) (*Node, bool) {
	if node == nil {
		return nil, false
	}
	if node.Path == path {
		return fn(node)
	}
	for i, child := range node.Children {
		replaced, ok := edit(child, path, fn)
		if !ok {
			continue
		}
		next := *node
		next.Children = make([]*Node, len(node.Children))
		copy(next.Children, node.Children)
		next.Children[i] = replaced
		return &next, true
	}
	return nil, false
}

// prune drops children matching path at every level. Folders whose own
// child list shrank get a fresh UpdatedAt.
func prune(node *Node, path string, now time.Time) (*Node, bool) {
	if node.Kind != KindFolder || len(node.Children) == 0 {
		return node, false
	}
	changed := false
	removed := false
	children := make([]*Node, 0, len(node.Children))
	for _, child := range node.Children {
		if child.Path == path {
			changed, removed = true, true
			continue
		}
		pruned, ok := prune(child, path, now)
		if ok {
			changed = true
		}
		children = append(children, pruned)
	}
	if !changed {
		return node, false
	}
	next := *node
	next.Children = children
	if removed {
		next.UpdatedAt = now
	}
	return &next, true
}

// rebase copies a subtree under a new path.
func rebase(node *Node, newPath string) *Node {
	next := *node
	next.Path = newPath
	if node.Kind == KindFolder {
		next.Children = make([]*Node, len(node.Children))
		for i, child := range node.Children {
			next.Children[i] = rebase(child, JoinPath(newPath, child.Name))
		}
	}
	return &next
}
