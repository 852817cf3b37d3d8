package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/playground-mcp/archive"
	"github.com/lexandro/playground-mcp/loader"
	"github.com/lexandro/playground-mcp/vfs"
	"github.com/lexandro/playground-mcp/workspace"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProjectArgs defines the input parameters for the playground_project tool.
type ProjectArgs struct {
	Action    string `json:"action" jsonschema:"reset (restore the sample project) or load (import a directory)"`
	Directory string `json:"directory,omitempty" jsonschema:"Directory on disk to import (action load)"`
	File      string `json:"file,omitempty" jsonschema:"JSON snapshot written by playground_export with format json (action load, instead of directory)"`
}

// LoadFunc imports a directory into the workspace. It is provided by main,
// which owns the ignore rules.
type LoadFunc func(dir string) (loader.Stats, error)

// ProjectHandler replaces the whole project.
type ProjectHandler struct {
	Workspace *workspace.Workspace
	Load      LoadFunc
	Logger    *slog.Logger
}

// Handle processes a playground_project request.
func (h *ProjectHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ProjectArgs) (*mcp.CallToolResult, any, error) {
	switch args.Action {
	case "reset":
		h.Workspace.Reset()
		h.Logger.Info("playground_project reset")
		return textResult("Project reset to the sample project; /index.php is open."), nil, nil

	case "load":
		if args.File != "" {
			return h.loadSnapshot(args.File)
		}
		if args.Directory == "" {
			return errorResult("Error: directory or file parameter is required to load a project"), nil, nil
		}
		h.Logger.Info("playground_project load started", "directory", args.Directory)
		stats, err := h.Load(args.Directory)
		if err != nil {
			h.Logger.Error("playground_project load failed", "directory", args.Directory, "error", err)
			return errorResult("Load failed: %v", err), nil, nil
		}
		h.Logger.Info("playground_project load complete",
			"directory", args.Directory,
			"files", stats.Files,
			"folders", stats.Folders,
			"skipped", stats.Skipped,
			"duration", stats.Duration,
		)
		return textResult(formatLoadStats(args.Directory, stats)), nil, nil
	}
	return errorResult("Error: action must be \"reset\" or \"load\", got %q", args.Action), nil, nil
}

func (h *ProjectHandler) loadSnapshot(path string) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	root, err := archive.ImportJSONFile(path)
	if err == nil {
		err = h.Workspace.Load(root)
	}
	if err != nil {
		h.Logger.Error("playground_project snapshot load failed", "file", path, "error", err)
		return errorResult("Load failed: %v", err), nil, nil
	}

	stats := loader.Stats{Duration: time.Since(start)}
	vfs.Walk(root, func(n *vfs.Node) {
		switch {
		case n == root:
		case n.IsFolder():
			stats.Folders++
		default:
			stats.Files++
			stats.Bytes += int64(len(n.Content))
		}
	})
	h.Logger.Info("playground_project snapshot loaded",
		"file", path,
		"files", stats.Files,
		"folders", stats.Folders,
		"duration", stats.Duration,
	)
	return textResult(formatLoadStats(path, stats)), nil, nil
}

func formatLoadStats(dir string, stats loader.Stats) string {
	text := fmt.Sprintf("Loaded %s: %d files in %d folders (%s) in %s",
		dir, stats.Files, stats.Folders, formatFileSize(stats.Bytes), stats.Duration.Round(time.Millisecond))
	if stats.Skipped > 0 {
		text += fmt.Sprintf(", %d files skipped", stats.Skipped)
	}
	return text
}
