package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/lexandro/playground-mcp/index"
	"github.com/lexandro/playground-mcp/runner"
	"github.com/lexandro/playground-mcp/sqlconsole"
	"github.com/lexandro/playground-mcp/vfs"
	"github.com/lexandro/playground-mcp/workspace"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the playground_status tool (none required).
type StatusArgs struct{}

// StatusHandler reports on the project, the indexes, the database and the
// last run.
type StatusHandler struct {
	Workspace    *workspace.Workspace
	FileIndex    *index.FileIndex
	ContentIndex *index.ContentIndex
	Engine       *sqlconsole.Engine
	Runner       *runner.Runner
	// Sync brings the indexes up to date before reporting. May be nil.
	Sync       func()
	StartTime  time.Time
	ProjectDir string
	Logger     *slog.Logger
}

// Handle processes a playground_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	if h.Sync != nil {
		h.Sync()
	}

	var builder strings.Builder

	root := h.Workspace.Tree().Root()
	nodeCount := vfs.CountNodes(root)
	fileCount := h.FileIndex.Count()
	totalSize := h.FileIndex.TotalSizeBytes()
	langCounts := h.FileIndex.LanguageCounts()
	uptime := time.Since(h.StartTime)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("playground_status",
		"files", fileCount,
		"nodes", nodeCount,
		"version", h.Workspace.Version(),
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	builder.WriteString("=== playground-mcp Status ===\n\n")
	if h.ProjectDir != "" {
		builder.WriteString(fmt.Sprintf("Project directory: %s\n", h.ProjectDir))
	} else {
		builder.WriteString("Project directory: (in memory)\n")
	}
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Project version: %d\n", h.Workspace.Version()))
	builder.WriteString(fmt.Sprintf("Nodes: %d (%d files)\n", nodeCount, fileCount))
	builder.WriteString(fmt.Sprintf("Content-indexed documents: %d\n", h.ContentIndex.DocumentCount()))
	builder.WriteString(fmt.Sprintf("Total size: %s\n", formatFileSize(totalSize)))
	builder.WriteString(fmt.Sprintf("Open documents: %d (active: %s)\n", len(h.Workspace.OpenDocuments()), orNone(h.Workspace.Active())))
	builder.WriteString(fmt.Sprintf("Run target: %s\n", h.Runner.Target()))
	if last := h.Runner.Last(); last != nil {
		builder.WriteString(fmt.Sprintf("Last run: %s at %s (%d characters)\n", last.Path, last.RanAt.Format(time.TimeOnly), len(last.Output)))
	}
	builder.WriteString(fmt.Sprintf("Database: %s\n", h.Engine.State()))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	if len(langCounts) > 0 {
		builder.WriteString("\nLanguages:\n")

		type langEntry struct {
			lang  string
			count int
		}
		entries := make([]langEntry, 0, len(langCounts))
		for lang, count := range langCounts {
			entries = append(entries, langEntry{lang, count})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].lang < entries[j].lang
		})
		for _, entry := range entries {
			builder.WriteString(fmt.Sprintf("  %-20s %d files\n", entry.lang, entry.count))
		}
	}

	return textResult(builder.String()), nil, nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
