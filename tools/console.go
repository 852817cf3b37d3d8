package tools

import (
	"context"
	"log/slog"

	"github.com/lexandro/playground-mcp/console"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ConsoleArgs defines the input parameters for the playground_console tool.
type ConsoleArgs struct {
	Action string `json:"action,omitempty" jsonschema:"read (default) or clear"`
	Kind   string `json:"kind,omitempty" jsonschema:"Only show messages of this kind: output, error, info or query"`
}

// ConsoleHandler reads or clears the console.
type ConsoleHandler struct {
	Console *console.Sink
	Logger  *slog.Logger
}

// Handle processes a playground_console request.
func (h *ConsoleHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ConsoleArgs) (*mcp.CallToolResult, any, error) {
	switch args.Action {
	case "", "read":
	case "clear":
		h.Console.Clear()
		h.Logger.Info("playground_console cleared")
		return textResult("Console cleared."), nil, nil
	default:
		return errorResult("Error: unknown action %q", args.Action), nil, nil
	}

	messages := h.Console.Messages()
	if args.Kind != "" {
		kind := console.Kind(args.Kind)
		switch kind {
		case console.KindOutput, console.KindError, console.KindInfo, console.KindQuery:
		default:
			return errorResult("Error: unknown message kind %q", args.Kind), nil, nil
		}
		filtered := messages[:0]
		for _, msg := range messages {
			if msg.Kind == kind {
				filtered = append(filtered, msg)
			}
		}
		messages = filtered
	}

	h.Logger.Info("playground_console", "messages", len(messages), "kind", args.Kind)
	return textResult(console.Format(messages)), nil, nil
}
