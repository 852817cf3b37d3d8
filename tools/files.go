package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/playground-mcp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FilesArgs defines the input parameters for the playground_files tool.
type FilesArgs struct {
	Pattern    string `json:"pattern" jsonschema:"Glob pattern over project paths (e.g. **/*.php or config/*)"`
	NameOnly   bool   `json:"nameOnly,omitempty" jsonschema:"If true return only file paths without metadata"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// FilesHandler holds the dependencies for the files tool.
type FilesHandler struct {
	FileIndex *index.FileIndex
	// Sync brings the index up to date before a lookup. May be nil.
	Sync   func()
	Logger *slog.Logger
}

// Handle processes a playground_files request.
func (h *FilesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FilesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern == "" {
		h.Logger.Warn("playground_files called with empty pattern")
		return errorResult("Error: pattern parameter is required"), nil, nil
	}
	if h.Sync != nil {
		h.Sync()
	}

	results, err := h.FileIndex.SearchByGlob(args.Pattern, args.MaxResults)
	if err != nil {
		h.Logger.Error("playground_files failed", "pattern", args.Pattern, "error", err)
		return errorResult("Search error: %v", err), nil, nil
	}

	h.Logger.Info("playground_files",
		"pattern", args.Pattern,
		"results", len(results),
		"elapsed", time.Since(start),
	)
	return textResult(FormatFileResults(results, args.NameOnly)), nil, nil
}
