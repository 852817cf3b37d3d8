package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lexandro/playground-mcp/console"
	"github.com/lexandro/playground-mcp/preview"
	"github.com/lexandro/playground-mcp/runner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RunArgs defines the input parameters for the playground_run tool.
type RunArgs struct {
	Document bool `json:"document,omitempty" jsonschema:"If true return the output wrapped in a full HTML page as shown in the preview"`
}

// RunHandler runs the active file or the entry file.
type RunHandler struct {
	Runner  *runner.Runner
	Console *console.Sink
	Logger  *slog.Logger
}

// Handle processes a playground_run request.
func (h *RunHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RunArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	result, err := h.Runner.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return errorResult("Run cancelled"), nil, nil
		}
		h.Logger.Info("playground_run failed", "error", err)
		return errorResult("%s", formatRunFailure(h.Console.Messages())), nil, nil
	}

	output := result.Output
	if args.Document {
		output = preview.Document(output)
	}

	h.Logger.Info("playground_run",
		"path", result.Path,
		"outputLength", len(result.Output),
		"fallback", result.Fallback,
		"elapsed", time.Since(start),
	)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s ──\n", result.Path))
	switch {
	case result.Passthrough:
		builder.WriteString("(no PHP code, source shown as is)\n")
	case result.Fallback:
		builder.WriteString("(no recognised output, source shown escaped)\n")
	}
	builder.WriteString(output)
	builder.WriteString("\n\nConsole:\n")
	builder.WriteString(console.Format(h.Console.Messages()))
	return textResult(builder.String()), nil, nil
}

func formatRunFailure(messages []console.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Kind == console.KindError {
			return messages[i].Text
		}
	}
	return "Run failed"
}
