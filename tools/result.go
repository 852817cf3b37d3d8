// Package tools implements the MCP tool handlers of the playground server.
// Each handler validates its arguments, reports user mistakes as IsError
// results and logs one line per call.
package tools

import (
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// normalizePath turns user input into a project path: slashes are
// unified, a leading slash is added and a trailing one dropped.
func normalizePath(p string) string {
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	return "/" + strings.Trim(p, "/")
}
