// Package vfs implements the playground's virtual file tree: a path-addressed,
// persistent document store where every mutation yields a new tree value that
// shares all untouched subtrees with its predecessor.
package vfs

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind discriminates files from folders. It never changes after creation.
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// RootPath is the canonical path of the tree root.
const RootPath = "/"

// ErrInvalidRoot is returned when a decoded or loaded root is not a folder at "/".
var ErrInvalidRoot = errors.New("root must be a folder at path \"/\"")

// Node is a file or folder entry. Nodes reachable from a Tree are shared
// between tree versions and must be treated as read-only.
type Node struct {
	ID        string
	Name      string
	Path      string
	Kind      Kind
	Content   string  // files only
	Children  []*Node // folders only
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFolder reports whether the node is a folder.
func (n *Node) IsFolder() bool { return n != nil && n.Kind == KindFolder }

// IsFile reports whether the node is a file.
func (n *Node) IsFile() bool { return n != nil && n.Kind == KindFile }

// wireNode is the persisted layout: content present iff file, children
// present iff folder, both even when empty.
type wireNode struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Kind      Kind      `json:"kind"`
	Content   *string   `json:"content,omitempty"`
	Children  *[]*Node  `json:"children,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := wireNode{
		ID:        n.ID,
		Name:      n.Name,
		Path:      n.Path,
		Kind:      n.Kind,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	switch n.Kind {
	case KindFile:
		content := n.Content
		w.Content = &content
	case KindFolder:
		children := n.Children
		if children == nil {
			children = []*Node{}
		}
		w.Children = &children
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Kind != KindFile && w.Kind != KindFolder {
		return fmt.Errorf("node %q: unknown kind %q", w.Path, w.Kind)
	}
	*n = Node{
		ID:        w.ID,
		Name:      w.Name,
		Path:      w.Path,
		Kind:      w.Kind,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if w.Kind == KindFile && w.Content != nil {
		n.Content = *w.Content
	}
	if w.Kind == KindFolder {
		n.Children = []*Node{}
		if w.Children != nil {
			n.Children = *w.Children
		}
	}
	return nil
}

// ValidateRoot checks the root invariant for a tree about to be loaded.
func ValidateRoot(root *Node) error {
	if root == nil || root.Path != RootPath || root.Kind != KindFolder {
		return ErrInvalidRoot
	}
	return nil
}
