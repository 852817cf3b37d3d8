// Package server registers the playground tools on an MCP server.
package server

import (
	"github.com/lexandro/playground-mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// Handlers bundles the tool handlers registered by Setup.
type Handlers struct {
	Tree    *tools.TreeHandler
	Files   *tools.FilesHandler
	Read    *tools.ReadHandler
	Write   *tools.WriteHandler
	Create  *tools.CreateHandler
	Delete  *tools.DeleteHandler
	Rename  *tools.RenameHandler
	Tabs    *tools.TabsHandler
	Run     *tools.RunHandler
	Query   *tools.QueryHandler
	Console *tools.ConsoleHandler
	Search  *tools.SearchHandler
	Export  *tools.ExportHandler
	Project *tools.ProjectHandler
	Status  *tools.StatusHandler
}

// Setup creates the MCP server with every playground tool registered.
func Setup(h Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "playground-mcp",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server hosts an in-memory PHP playground: a small project of files and folders, an editor with open documents, a console, and an in-memory SQL database.

- The project lives only in memory. Use playground_tree, playground_read and playground_write to inspect and edit it; playground_export writes it to a zip archive.
- playground_run renders the active document (or /index.php) with a lightweight PHP emulator that understands simple variable assignments, echo, foreach over arrays and date('Y'). It is not a PHP interpreter.
- playground_query runs SQL against an in-memory SQLite database; statements are separated by semicolons.
- Runs and queries report to the console; read it with playground_console.`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "playground_tree",
		Description: "Show the project tree (folders first, then files, both by name) with the open, active and selected entries marked.",
	}, h.Tree.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "playground_files",
		Description: `Find project files by glob pattern.

Pattern examples:
  - "**/*.php" - all PHP files
  - "config/*" - files directly in /config
  - "*.css" - stylesheets at the project root`,
	}, h.Files.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "playground_read",
		Description: `Read a project file. Returns numbered lines (format: "N│ content") under a header naming the editor language.`,
	}, h.Read.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "playground_write",
		Description: "Replace the content of a project file. Missing files are created together with their parent folders.",
	}, h.Write.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "playground_create",
		Description: "Create an empty file or folder inside an existing folder. Names must be unique within the folder and may not contain slashes.",
	}, h.Create.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "playground_delete",
		Description: "Delete a file, or a folder with everything below it. Open documents inside the deleted part are closed.",
	}, h.Delete.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "playground_rename",
		Description: "Rename a file or folder in place. Paths below a renamed folder, open documents and the selection follow the rename.",
	}, h.Rename.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "playground_tabs",
		Description: "List, open, close or activate editor documents, or change the explorer selection. Opening a document makes it active.",
	}, h.Tabs.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "playground_run",
		Description: "Run the active document, or /index.php when no document is active, and return the rendered output together with the console.",
	}, h.Run.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "playground_query",
		Description: `Run SQL against the in-memory SQLite database.

Actions:
  - run: execute the statements in script, stopping at the first error (earlier statements are kept)
  - sample: run the sample script that creates and fills a users table
  - tables: list the tables
  - clear: drop every table`,
	}, h.Query.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "playground_console",
		Description: "Read the console messages (optionally of one kind) or clear the console.",
	}, h.Console.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "playground_search",
		Description: `Search project file contents.

Query formats:
  - Plain text: word-level matching (e.g., "fruits")
  - "quoted text": exact phrase matching (e.g., "\"Hello, World\"")
  - /regex/: regular expression matching (e.g., "/\$\w+\s*=/")

Filtering:
  - filePath: project path of a single file (e.g., "/index.php"). Overrides fileGlob.
  - fileGlob: glob pattern to filter by file type (e.g., "**/*.php").`,
	}, h.Search.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "playground_export",
		Description: "Write the project to disk as a zip archive (empty folders are kept) or, with format json, as a snapshot that playground_project can load again.",
	}, h.Export.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "playground_project",
		Description: "Replace the whole project: reset restores the sample project, load imports a directory from disk (ignored, binary and oversized files are skipped) or a JSON snapshot given as file.",
	}, h.Project.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "playground_status",
		Description: "Show project, index, database and run status: file counts, languages, memory usage and uptime.",
	}, h.Status.Handle)

	return mcpServer
}
