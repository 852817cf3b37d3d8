package vfs

import (
	"sort"
	"strings"
)

// JoinPath builds a child path from a parent path and a name.
// The root parent is special-cased so the result never contains "//".
func JoinPath(parentPath, name string) string {
	if parentPath == RootPath {
		return RootPath + name
	}
	return parentPath + "/" + name
}

// ParentPath returns the path of the folder containing path.
func ParentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return RootPath
	}
	return path[:idx]
}

// BaseName returns the last segment of path.
func BaseName(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

// IsWithin reports whether path equals ancestor or lies below it.
func IsWithin(path, ancestor string) bool {
	if ancestor == RootPath {
		return strings.HasPrefix(path, RootPath)
	}
	return path == ancestor || strings.HasPrefix(path, ancestor+"/")
}

// validName rejects names that would break path derivation.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.Contains(name, "/")
}

// FindByPath resolves a path depth-first, returning the first match.
func FindByPath(root *Node, path string) *Node {
	if root == nil {
		return nil
	}
	if root.Path == path {
		return root
	}
	for _, child := range root.Children {
		if found := FindByPath(child, path); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits node and its descendants in pre-order.
func Walk(node *Node, fn func(*Node)) {
	if node == nil {
		return
	}
	fn(node)
	for _, child := range node.Children {
		Walk(child, fn)
	}
}

// Files returns every file below root in pre-order.
func Files(root *Node) []*Node {
	var files []*Node
	Walk(root, func(n *Node) {
		if n.Kind == KindFile {
			files = append(files, n)
		}
	})
	return files
}

// CountNodes counts root and all of its descendants.
func CountNodes(root *Node) int {
	count := 0
	Walk(root, func(*Node) { count++ })
	return count
}

// SortedChildren returns the children of a folder in display order:
// folders before files, then by name. The stored order is left untouched.
func SortedChildren(node *Node) []*Node {
	if node == nil || len(node.Children) == 0 {
		return nil
	}
	sorted := make([]*Node, len(node.Children))
	copy(sorted, node.Children)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Kind != b.Kind {
			return a.Kind == KindFolder
		}
		al, bl := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if al != bl {
			return al < bl
		}
		return a.Name < b.Name
	})
	return sorted
}
