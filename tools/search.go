package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/playground-mcp/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgs defines the input parameters for the playground_search tool.
type SearchArgs struct {
	Query        string `json:"query" jsonschema:"Search query. Plain text for word match, quoted for exact phrase, /regex/ for regular expression"`
	FilePath     string `json:"filePath,omitempty" jsonschema:"Project path of a single file to search in (overrides fileGlob)"`
	FileGlob     string `json:"fileGlob,omitempty" jsonschema:"Optional glob pattern to filter files (e.g. **/*.php)"`
	MaxResults   int    `json:"maxResults,omitempty" jsonschema:"Maximum number of file results to return (default 50)"`
	ContextLines int    `json:"contextLines,omitempty" jsonschema:"Number of context lines before and after each match (default 2)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	ContentIndex *index.ContentIndex
	// Sync brings the index up to date before a search. May be nil.
	Sync   func()
	Logger *slog.Logger
}

// Handle processes a playground_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("playground_search called with empty query")
		return errorResult("Error: query parameter is required"), nil, nil
	}
	if h.Sync != nil {
		h.Sync()
	}

	contextLines := args.ContextLines
	if contextLines == 0 {
		contextLines = 2
	}

	results, totalMatches, err := h.ContentIndex.Search(index.SearchOptions{
		Query:        args.Query,
		FilePath:     args.FilePath,
		FileGlob:     args.FileGlob,
		MaxResults:   args.MaxResults,
		ContextLines: contextLines,
	})
	if err != nil {
		h.Logger.Error("playground_search failed", "query", args.Query, "error", err)
		return errorResult("Search error: %v", err), nil, nil
	}

	h.Logger.Info("playground_search",
		"query", args.Query,
		"filePath", args.FilePath,
		"fileGlob", args.FileGlob,
		"files", len(results),
		"matches", totalMatches,
		"elapsed", time.Since(start),
	)
	return textResult(FormatSearchResults(results, totalMatches)), nil, nil
}
