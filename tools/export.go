package tools

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lexandro/playground-mcp/archive"
	"github.com/lexandro/playground-mcp/vfs"
	"github.com/lexandro/playground-mcp/workspace"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Default output names, used when no output path is given.
const (
	DefaultExportName     = "playground-project.zip"
	DefaultJSONExportName = "playground-project.json"
)

// ExportArgs defines the input parameters for the playground_export tool.
type ExportArgs struct {
	OutputPath string `json:"outputPath,omitempty" jsonschema:"Where to write the export (default playground-project.zip or .json in the server's working directory)"`
	Format     string `json:"format,omitempty" jsonschema:"zip (default) or json (a snapshot that playground_project can load again)"`
}

// ExportHandler writes the project to a zip archive or a JSON snapshot on
// disk.
type ExportHandler struct {
	Workspace *workspace.Workspace
	Logger    *slog.Logger
}

// Handle processes a playground_export request.
func (h *ExportHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ExportArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	format := args.Format
	if format == "" {
		format = "zip"
	}
	export, defaultName := archive.ExportFile, DefaultExportName
	switch format {
	case "zip":
	case "json":
		export, defaultName = archive.ExportJSONFile, DefaultJSONExportName
	default:
		return errorResult("Error: format must be \"zip\" or \"json\", got %q", args.Format), nil, nil
	}

	outputPath := args.OutputPath
	if outputPath == "" {
		outputPath = defaultName
	}
	outputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return errorResult("Invalid output path %q: %v", args.OutputPath, err), nil, nil
	}

	root := h.Workspace.Export()
	if err := export(outputPath, root); err != nil {
		h.Logger.Error("playground_export failed", "outputPath", outputPath, "format", format, "error", err)
		return errorResult("Export failed: %v", err), nil, nil
	}

	files := len(vfs.Files(root))
	h.Logger.Info("playground_export",
		"outputPath", outputPath,
		"format", format,
		"files", files,
		"elapsed", time.Since(start),
	)
	return textResult(fmt.Sprintf("Exported %d files to %s", files, outputPath)), nil, nil
}
