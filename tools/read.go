package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/playground-mcp/language"
	"github.com/lexandro/playground-mcp/vfs"
	"github.com/lexandro/playground-mcp/workspace"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReadArgs defines the input parameters for the playground_read tool.
type ReadArgs struct {
	FilePath string `json:"filePath" jsonschema:"Project path of the file to read (e.g. /index.php)"`
}

// ReadHandler holds the dependencies for the read tool.
type ReadHandler struct {
	Workspace *workspace.Workspace
	Logger    *slog.Logger
}

// Handle processes a playground_read request.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	path := normalizePath(args.FilePath)
	if path == "" {
		h.Logger.Warn("playground_read called with empty filePath")
		return errorResult("Error: filePath parameter is required"), nil, nil
	}

	file, ok := h.Workspace.File(path)
	if !ok {
		if node := h.Workspace.Tree().Find(path); node.IsFolder() {
			return errorResult("%s is a folder; use playground_tree to list it", path), nil, nil
		}
		h.Logger.Info("playground_read file not found", "filePath", path)
		return errorResult("File not found: %s", path), nil, nil
	}

	h.Logger.Info("playground_read", "filePath", path, "elapsed", time.Since(start))
	return textResult(FormatFileContent(path, language.EditorLanguage(path), file.Content)), nil, nil
}

// TreeArgs defines the input parameters for the playground_tree tool.
type TreeArgs struct {
	Path string `json:"path,omitempty" jsonschema:"Folder to list (default /)"`
}

// TreeHandler holds the dependencies for the tree tool.
type TreeHandler struct {
	Workspace *workspace.Workspace
	Logger    *slog.Logger
}

// Handle processes a playground_tree request.
func (h *TreeHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TreeArgs) (*mcp.CallToolResult, any, error) {
	path := normalizePath(args.Path)
	if path == "" {
		path = vfs.RootPath
	}

	node := h.Workspace.Tree().Find(path)
	if node == nil {
		return errorResult("Path not found: %s", path), nil, nil
	}

	marks := TreeMarks{
		Active:   h.Workspace.Active(),
		Selected: h.Workspace.Selected(),
		Open:     h.Workspace.OpenDocuments(),
	}
	h.Logger.Info("playground_tree", "path", path, "nodes", vfs.CountNodes(node))
	return textResult(FormatTree(node, marks)), nil, nil
}
