package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lexandro/playground-mcp/workspace"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TabsArgs defines the input parameters for the playground_tabs tool.
type TabsArgs struct {
	Action string `json:"action,omitempty" jsonschema:"list (default), open, close, activate or select"`
	Path   string `json:"path,omitempty" jsonschema:"Project path the action applies to; empty with activate or select clears it"`
}

// TabsHandler manages the open documents, the active document and the
// explorer selection.
type TabsHandler struct {
	Workspace *workspace.Workspace
	Logger    *slog.Logger
}

// Handle processes a playground_tabs request.
func (h *TabsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TabsArgs) (*mcp.CallToolResult, any, error) {
	path := normalizePath(args.Path)
	action := args.Action
	if action == "" {
		action = "list"
	}

	var err error
	switch action {
	case "list":
	case "open":
		if path == "" {
			return errorResult("Error: path parameter is required to open a document"), nil, nil
		}
		err = h.Workspace.Open(path)
	case "close":
		if path == "" {
			return errorResult("Error: path parameter is required to close a document"), nil, nil
		}
		if !h.Workspace.Close(path) {
			return errorResult("%s is not open", path), nil, nil
		}
	case "activate":
		err = h.Workspace.SetActive(path)
	case "select":
		err = h.Workspace.Select(path)
	default:
		return errorResult("Error: unknown action %q", args.Action), nil, nil
	}

	switch {
	case errors.Is(err, workspace.ErrNotFound):
		return errorResult("No such file: %s", path), nil, nil
	case errors.Is(err, workspace.ErrInvalidSelection):
		return errorResult("%s is not open; open it first", path), nil, nil
	case err != nil:
		return errorResult("Error: %v", err), nil, nil
	}

	h.Logger.Info("playground_tabs", "action", action, "path", path, "active", h.Workspace.Active())
	return textResult(formatTabs(h.Workspace.OpenDocuments(), h.Workspace.Active(), h.Workspace.Selected())), nil, nil
}

func formatTabs(open []string, active, selected string) string {
	var builder strings.Builder
	if len(open) == 0 {
		builder.WriteString("No open documents.\n")
	} else {
		builder.WriteString(fmt.Sprintf("Open documents (%d):\n", len(open)))
		for _, p := range open {
			marker := "  "
			if p == active {
				marker = "* "
			}
			builder.WriteString(marker + p + "\n")
		}
	}
	if selected != "" {
		builder.WriteString("Selected: " + selected + "\n")
	}
	return builder.String()
}
