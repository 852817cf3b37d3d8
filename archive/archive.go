// Package archive exports a document tree as a zip file, and saves and
// restores it as a JSON snapshot in the persisted project layout.
package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexandro/playground-mcp/vfs"
)

// WriteZip writes every file of root at its project-relative location.
// Folders, empty ones included, get their own directory entry; the root
// itself has none.
func WriteZip(w io.Writer, root *vfs.Node) error {
	if err := vfs.ValidateRoot(root); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	if err := addChildren(zw, root); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func addChildren(zw *zip.Writer, folder *vfs.Node) error {
	for _, child := range folder.Children {
		name := strings.TrimPrefix(child.Path, "/")
		header := &zip.FileHeader{
			Name:     name,
			Modified: child.UpdatedAt,
		}

		if child.IsFolder() {
			header.Name += "/"
			header.SetMode(os.ModeDir | 0o755)
			if _, err := zw.CreateHeader(header); err != nil {
				return fmt.Errorf("add folder %s: %w", child.Path, err)
			}
			if err := addChildren(zw, child); err != nil {
				return err
			}
			continue
		}

		header.Method = zip.Deflate
		header.SetMode(0o644)
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("add file %s: %w", child.Path, err)
		}
		if _, err := io.WriteString(fw, child.Content); err != nil {
			return fmt.Errorf("write file %s: %w", child.Path, err)
		}
	}
	return nil
}

// ExportFile writes the archive to path, replacing it atomically.
func ExportFile(path string, root *vfs.Node) error {
	if err := writeAtomic(path, ".playground-export-*.zip", func(w io.Writer) error {
		return WriteZip(w, root)
	}); err != nil {
		return fmt.Errorf("export archive: %w", err)
	}
	return nil
}

// WriteJSON writes root as an indented JSON snapshot.
func WriteJSON(w io.Writer, root *vfs.Node) error {
	if err := vfs.ValidateRoot(root); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}

// ReadJSON decodes a snapshot written by WriteJSON. Every node's path must
// match its place in the tree.
func ReadJSON(r io.Reader) (*vfs.Node, error) {
	var root vfs.Node
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	if err := vfs.ValidateRoot(&root); err != nil {
		return nil, err
	}
	if err := checkPaths(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

func checkPaths(folder *vfs.Node) error {
	seen := make(map[string]bool, len(folder.Children))
	for _, child := range folder.Children {
		if child == nil {
			return fmt.Errorf("folder %s: null child", folder.Path)
		}
		if want := vfs.JoinPath(folder.Path, child.Name); child.Path != want {
			return fmt.Errorf("node %q: expected path %s", child.Path, want)
		}
		if seen[child.Name] {
			return fmt.Errorf("folder %s: duplicate name %q", folder.Path, child.Name)
		}
		seen[child.Name] = true
		if child.IsFolder() {
			if err := checkPaths(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExportJSONFile writes the snapshot to path, replacing it atomically.
func ExportJSONFile(path string, root *vfs.Node) error {
	if err := writeAtomic(path, ".playground-export-*.json", func(w io.Writer) error {
		return WriteJSON(w, root)
	}); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	return nil
}

// ImportJSONFile reads a snapshot from path.
func ImportJSONFile(path string) (*vfs.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}

func writeAtomic(path, pattern string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), pattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move into place: %w", err)
	}
	return nil
}
