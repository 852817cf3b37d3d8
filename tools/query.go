package tools

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/lexandro/playground-mcp/console"
	"github.com/lexandro/playground-mcp/sqlconsole"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// readyTimeout bounds how long a query waits for the engine to start.
const readyTimeout = 5 * time.Second

// QueryArgs defines the input parameters for the playground_query tool.
type QueryArgs struct {
	Action string `json:"action,omitempty" jsonschema:"run (default), sample, tables or clear"`
	Script string `json:"script,omitempty" jsonschema:"SQL statements separated by semicolons (action run)"`
}

// QueryHandler runs SQL scripts against the in-memory database.
type QueryHandler struct {
	Engine  *sqlconsole.Engine
	Console *console.Sink
	Logger  *slog.Logger
}

// Handle processes a playground_query request.
func (h *QueryHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args QueryArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	action := args.Action
	if action == "" {
		action = "run"
	}
	switch action {
	case "run", "sample", "tables", "clear":
	default:
		return errorResult("Error: unknown action %q", args.Action), nil, nil
	}
	if action == "run" && strings.TrimSpace(args.Script) == "" {
		return errorResult("Error: script parameter is required"), nil, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()
	if err := h.Engine.WaitReady(waitCtx); err != nil {
		h.Logger.Warn("playground_query engine not ready", "state", h.Engine.State(), "error", err)
		return errorResult("Database not initialized (%s)", h.Engine.State()), nil, nil
	}

	switch action {
	case "tables":
		tables, err := h.Engine.Tables(ctx)
		if err != nil {
			return errorResult("Error listing tables: %v", err), nil, nil
		}
		if len(tables) == 0 {
			return textResult("No tables."), nil, nil
		}
		return textResult("Tables:\n  " + strings.Join(tables, "\n  ") + "\n"), nil, nil
	case "clear":
		if err := h.Engine.ClearDatabase(ctx); err != nil {
			return errorResult("Error clearing database: %v", err), nil, nil
		}
		return textResult("Database cleared."), nil, nil
	}

	script := args.Script
	if action == "sample" {
		script = sqlconsole.SampleScript
	}

	mark := h.Console.Len()
	result, err := h.Engine.RunScript(ctx, script)
	messages := h.Console.Messages()
	if mark <= len(messages) {
		messages = messages[mark:]
	}

	h.Logger.Info("playground_query",
		"action", action,
		"statements", len(sqlconsole.SplitStatements(script)),
		"failed", err != nil,
		"elapsed", time.Since(start),
	)

	if err != nil {
		var stmtErr *sqlconsole.StatementError
		if errors.As(err, &stmtErr) {
			return errorResult("%s\n\nConsole:\n%s", stmtErr.Error(), console.Format(messages)), nil, nil
		}
		return errorResult("Error: %v", err), nil, nil
	}

	var builder strings.Builder
	if result != nil {
		builder.WriteString(FormatResultSet(result))
	} else {
		builder.WriteString("Query executed successfully (no results to display)\n")
	}
	builder.WriteString("\nConsole:\n")
	builder.WriteString(console.Format(messages))
	return textResult(builder.String()), nil, nil
}
