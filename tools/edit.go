package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/playground-mcp/vfs"
	"github.com/lexandro/playground-mcp/workspace"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// WriteArgs defines the input parameters for the playground_write tool.
type WriteArgs struct {
	FilePath string `json:"filePath" jsonschema:"Project path of the file to write (e.g. /pages/about.php)"`
	Content  string `json:"content" jsonschema:"New content of the file"`
}

// WriteHandler replaces a file's content, creating the file and its parent
// folders when they do not exist.
type WriteHandler struct {
	Workspace *workspace.Workspace
	Logger    *slog.Logger
}

// Handle processes a playground_write request.
func (h *WriteHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args WriteArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	path := normalizePath(args.FilePath)
	if path == "" || path == vfs.RootPath {
		return errorResult("Error: filePath parameter is required"), nil, nil
	}

	created, err := h.Workspace.Write(path, args.Content)
	if err != nil {
		h.Logger.Warn("playground_write failed", "filePath", path, "error", err)
		return errorResult("Cannot write %s: %v", path, err), nil, nil
	}

	verb := "Updated"
	if created {
		verb = "Created"
	}
	h.Logger.Info("playground_write",
		"filePath", path,
		"created", created,
		"bytes", len(args.Content),
		"elapsed", time.Since(start),
	)
	return textResult(fmt.Sprintf("%s %s (%s)", verb, path, formatFileSize(int64(len(args.Content))))), nil, nil
}

// CreateArgs defines the input parameters for the playground_create tool.
type CreateArgs struct {
	ParentPath string `json:"parentPath" jsonschema:"Folder to create the entry in (e.g. / or /config)"`
	Name       string `json:"name" jsonschema:"Name of the new file or folder, without slashes"`
	Kind       string `json:"kind,omitempty" jsonschema:"file or folder (default file)"`
}

// CreateHandler adds an empty file or folder.
type CreateHandler struct {
	Workspace *workspace.Workspace
	Logger    *slog.Logger
}

// Handle processes a playground_create request.
func (h *CreateHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args CreateArgs) (*mcp.CallToolResult, any, error) {
	kind := vfs.KindFile
	switch args.Kind {
	case "", "file":
	case "folder":
		kind = vfs.KindFolder
	default:
		return errorResult("Error: kind must be \"file\" or \"folder\", got %q", args.Kind), nil, nil
	}
	if args.Name == "" {
		return errorResult("Error: name parameter is required"), nil, nil
	}

	parent := normalizePath(args.ParentPath)
	if parent == "" {
		parent = vfs.RootPath
	}

	path, ok := h.Workspace.Create(parent, args.Name, kind)
	if !ok {
		h.Logger.Info("playground_create rejected", "parentPath", parent, "name", args.Name)
		return errorResult("Cannot create %q in %s: the parent must be an existing folder and the name must be valid and unused", args.Name, parent), nil, nil
	}

	h.Logger.Info("playground_create", "path", path, "kind", kind)
	return textResult("Created " + string(kind) + " " + path), nil, nil
}

// DeleteArgs defines the input parameters for the playground_delete tool.
type DeleteArgs struct {
	Path string `json:"path" jsonschema:"Project path of the file or folder to delete"`
}

// DeleteHandler removes a file or a folder with everything below it.
type DeleteHandler struct {
	Workspace *workspace.Workspace
	Logger    *slog.Logger
}

// Handle processes a playground_delete request.
func (h *DeleteHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args DeleteArgs) (*mcp.CallToolResult, any, error) {
	path := normalizePath(args.Path)
	if path == "" {
		return errorResult("Error: path parameter is required"), nil, nil
	}
	if path == vfs.RootPath {
		return errorResult("The project root cannot be deleted; use playground_project to reset it"), nil, nil
	}

	node := h.Workspace.Tree().Find(path)
	if node == nil || !h.Workspace.Delete(path) {
		return errorResult("Path not found: %s", path), nil, nil
	}

	removed := vfs.CountNodes(node)
	h.Logger.Info("playground_delete", "path", path, "nodes", removed)
	return textResult(formatRemoved(path, removed)), nil, nil
}

func formatRemoved(path string, nodes int) string {
	if nodes == 1 {
		return "Deleted " + path
	}
	return fmt.Sprintf("Deleted %s and %d entries below it", path, nodes-1)
}

// RenameArgs defines the input parameters for the playground_rename tool.
type RenameArgs struct {
	Path    string `json:"path" jsonschema:"Project path of the file or folder to rename"`
	NewName string `json:"newName" jsonschema:"New name, without slashes; the entry stays in its folder"`
}

// RenameHandler renames a node in place.
type RenameHandler struct {
	Workspace *workspace.Workspace
	Logger    *slog.Logger
}

// Handle processes a playground_rename request.
func (h *RenameHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RenameArgs) (*mcp.CallToolResult, any, error) {
	path := normalizePath(args.Path)
	if path == "" || args.NewName == "" {
		return errorResult("Error: path and newName parameters are required"), nil, nil
	}
	if h.Workspace.Tree().Find(path) == nil {
		return errorResult("Path not found: %s", path), nil, nil
	}

	newPath, ok := h.Workspace.Rename(path, args.NewName)
	if !ok {
		h.Logger.Info("playground_rename rejected", "path", path, "newName", args.NewName)
		return errorResult("Cannot rename %s to %q: the name must be valid and unused in its folder", path, args.NewName), nil, nil
	}

	h.Logger.Info("playground_rename", "path", path, "newPath", newPath)
	return textResult("Renamed " + path + " to " + newPath), nil, nil
}
