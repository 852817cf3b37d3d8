package tools

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lexandro/playground-mcp/index"
	"github.com/lexandro/playground-mcp/sqlconsole"
	"github.com/lexandro/playground-mcp/vfs"
)

// FormatSearchResults groups content matches by file with line numbers and
// optional context.
func FormatSearchResults(results []index.SearchResult, totalMatches int) string {
	if len(results) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d matches in %d files:\n\n", totalMatches, len(results)))

	for i, result := range results {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("── /%s ──\n", result.RelativePath))

		for _, match := range result.Matches {
			for _, ctxLine := range match.ContextBefore {
				builder.WriteString(fmt.Sprintf("  %s\n", ctxLine))
			}
			builder.WriteString(fmt.Sprintf("  %d: %s\n", match.LineNumber, match.LineText))
			for _, ctxLine := range match.ContextAfter {
				builder.WriteString(fmt.Sprintf("  %s\n", ctxLine))
			}
		}
	}
	return builder.String()
}

// FormatFileResults lists glob matches, optionally with metadata.
func FormatFileResults(entries []*index.Entry, nameOnly bool) string {
	if len(entries) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(entries)))
	for _, entry := range entries {
		if nameOnly {
			builder.WriteString(entry.Path)
			builder.WriteString("\n")
			continue
		}
		builder.WriteString(fmt.Sprintf("  %s  (%s, %s, %d lines)\n",
			entry.Path,
			entry.Language,
			formatFileSize(entry.SizeBytes),
			entry.LineCount,
		))
	}
	return builder.String()
}

// FormatFileContent renders content with a header and numbered lines.
func FormatFileContent(filePath, editorLanguage, content string) string {
	lines := strings.Split(content, "\n")
	lineCount := len(lines)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%s, %d lines) ──\n", filePath, editorLanguage, lineCount))

	width := len(fmt.Sprintf("%d", lineCount))
	for i, line := range lines {
		builder.WriteString(fmt.Sprintf("%*d│ %s\n", width, i+1, line))
	}
	return builder.String()
}

// TreeMarks annotates paths in a tree listing.
type TreeMarks struct {
	Active   string
	Selected string
	Open     []string
}

func (m TreeMarks) label(path string) string {
	var marks []string
	if path == m.Active {
		marks = append(marks, "active")
	} else {
		for _, p := range m.Open {
			if p == path {
				marks = append(marks, "open")
				break
			}
		}
	}
	if path == m.Selected {
		marks = append(marks, "selected")
	}
	if len(marks) == 0 {
		return ""
	}
	return "  [" + strings.Join(marks, ", ") + "]"
}

// FormatTree draws node and its descendants, folders first.
func FormatTree(node *vfs.Node, marks TreeMarks) string {
	var builder strings.Builder
	if node.Path == vfs.RootPath {
		builder.WriteString(fmt.Sprintf("/ (%s)%s\n", node.Name, marks.label(node.Path)))
	} else {
		builder.WriteString(formatTreeName(node) + marks.label(node.Path) + "\n")
	}
	writeTreeChildren(&builder, node, "", marks)
	return builder.String()
}

func writeTreeChildren(builder *strings.Builder, node *vfs.Node, prefix string, marks TreeMarks) {
	children := vfs.SortedChildren(node)
	for i, child := range children {
		branch, indent := "├── ", "│   "
		if i == len(children)-1 {
			branch, indent = "└── ", "    "
		}
		builder.WriteString(prefix + branch + formatTreeName(child) + marks.label(child.Path) + "\n")
		if child.IsFolder() {
			writeTreeChildren(builder, child, prefix+indent, marks)
		}
	}
}

func formatTreeName(node *vfs.Node) string {
	if node.IsFolder() {
		return node.Name + "/"
	}
	return node.Name
}

// FormatResultSet renders a query result as a table.
func FormatResultSet(result *sqlconsole.ResultSet) string {
	if result == nil {
		return "(no rows)"
	}
	rows := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = "NULL"
			} else {
				cells[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, cells)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(result.Columns...).
		Rows(rows...)
	return t.String() + fmt.Sprintf("\n%d row(s)\n", len(result.Rows))
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
