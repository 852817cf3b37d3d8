package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lexandro/playground-mcp/config"
	"github.com/lexandro/playground-mcp/console"
	"github.com/lexandro/playground-mcp/ignore"
	"github.com/lexandro/playground-mcp/index"
	"github.com/lexandro/playground-mcp/loader"
	"github.com/lexandro/playground-mcp/preview"
	"github.com/lexandro/playground-mcp/register"
	"github.com/lexandro/playground-mcp/runner"
	"github.com/lexandro/playground-mcp/server"
	"github.com/lexandro/playground-mcp/sqlconsole"
	"github.com/lexandro/playground-mcp/tools"
	"github.com/lexandro/playground-mcp/watcher"
	"github.com/lexandro/playground-mcp/workspace"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// editRunDelay is the pause between the last edit and the automatic run.
const editRunDelay = 300 * time.Millisecond

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "register":
			runRegister()
			return
		case "run":
			os.Exit(runOnce(os.Args[2:]))
		}
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Setup logger (always to file or stderr, never to stdout - stdout is for MCP stdio)
	logger := setupLogger(cfg.LogLevel, cfg.LogFile)
	logger.Info("starting playground-mcp",
		"project", cfg.ProjectDir,
		"watch", cfg.Watch,
		"entry", cfg.Entry,
		"autorun", cfg.AutoRun,
		"sqlDriver", cfg.SQLDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startTime := time.Now()

	// Workspace mutations are batched here and drive index sync and autorun.
	changes := watcher.NewDebouncer(watcher.DefaultInterval)
	defer changes.Stop()
	ws := workspace.New(changes)
	sink := console.NewSink()

	engine := sqlconsole.NewEngine(cfg.SQLDriver, cfg.SQLDSN, sink, logger)
	engine.Start(ctx)
	defer engine.Close()

	projectRunner, err := runner.New(ws, sink, logger, runner.Options{
		Entry:     cfg.Entry,
		Delay:     cfg.RunDelay,
		CacheSize: cfg.CacheSize,
	})
	if err != nil {
		logger.Error("failed to create runner", "error", err)
		os.Exit(1)
	}
	defer projectRunner.Close()

	// Create indexes
	fileIndex := index.NewFileIndex()
	contentIndex, err := index.NewContentIndex()
	if err != nil {
		logger.Error("failed to create content index", "error", err)
		os.Exit(1)
	}
	defer contentIndex.Close()
	syncer := newIndexSyncer(ws, fileIndex, contentIndex, logger)

	newMatcher := func(dir string) *ignore.Matcher {
		return ignore.NewMatcher(ignore.MatcherOptions{
			RootDir:     dir,
			Excludes:    cfg.Excludes,
			MaxFileSize: cfg.MaxFileSize,
		})
	}
	loadProject := func(dir string) (loader.Stats, error) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return loader.Stats{}, fmt.Errorf("resolve %s: %w", dir, err)
		}
		return loadInto(ws, newMatcher(abs), logger)
	}

	var matcher *ignore.Matcher
	var projectEpoch uint64
	if cfg.ProjectDir != "" {
		matcher = newMatcher(cfg.ProjectDir)
		stats, err := loadInto(ws, matcher, logger)
		if err != nil {
			logger.Error("failed to load project", "dir", cfg.ProjectDir, "error", err)
			os.Exit(1)
		}
		projectEpoch = ws.Epoch()
		logger.Info("project loaded",
			"dir", cfg.ProjectDir,
			"files", stats.Files,
			"folders", stats.Folders,
			"bytes", stats.Bytes,
			"skipped", stats.Skipped,
			"duration", stats.Duration,
		)
	}

	result := syncer.Sync()
	logger.Info("initial indexing complete",
		"files", fileIndex.Count(),
		"totalSize", fileIndex.TotalSizeBytes(),
		"duration", result.Duration,
	)

	// Start file watcher
	if cfg.Watch {
		fileWatcher, err := watcher.NewWatcher(cfg.ProjectDir, matcher, logger)
		if err != nil {
			logger.Warn("failed to start file watcher, continuing without live updates", "error", err)
		} else {
			go fileWatcher.Start()
			go handleWatcherEvents(fileWatcher, ws, projectEpoch, matcher, logger)
			defer fileWatcher.Close()
		}
	}

	go handleWorkspaceChanges(ctx, changes, syncer, projectRunner, cfg.AutoRun, logger)
	if cfg.AutoRun {
		projectRunner.Schedule(ctx, cfg.AutoRunDelay)
	}

	// Create tool handlers
	handlers := server.Handlers{
		Tree:    &tools.TreeHandler{Workspace: ws, Logger: logger},
		Files:   &tools.FilesHandler{FileIndex: fileIndex, Sync: func() { syncer.Sync() }, Logger: logger},
		Read:    &tools.ReadHandler{Workspace: ws, Logger: logger},
		Write:   &tools.WriteHandler{Workspace: ws, Logger: logger},
		Create:  &tools.CreateHandler{Workspace: ws, Logger: logger},
		Delete:  &tools.DeleteHandler{Workspace: ws, Logger: logger},
		Rename:  &tools.RenameHandler{Workspace: ws, Logger: logger},
		Tabs:    &tools.TabsHandler{Workspace: ws, Logger: logger},
		Run:     &tools.RunHandler{Runner: projectRunner, Console: sink, Logger: logger},
		Query:   &tools.QueryHandler{Engine: engine, Console: sink, Logger: logger},
		Console: &tools.ConsoleHandler{Console: sink, Logger: logger},
		Search:  &tools.SearchHandler{ContentIndex: contentIndex, Sync: func() { syncer.Sync() }, Logger: logger},
		Export:  &tools.ExportHandler{Workspace: ws, Logger: logger},
		Project: &tools.ProjectHandler{Workspace: ws, Load: loadProject, Logger: logger},
		Status: &tools.StatusHandler{
			Workspace:    ws,
			FileIndex:    fileIndex,
			ContentIndex: contentIndex,
			Engine:       engine,
			Runner:       projectRunner,
			Sync:         func() { syncer.Sync() },
			StartTime:    startTime,
			ProjectDir:   cfg.ProjectDir,
			Logger:       logger,
		},
	}

	// Setup and run MCP server on stdio
	mcpServer := server.Setup(handlers)

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

// handleWorkspaceChanges keeps the indexes in step with the workspace and
// schedules a run after each batch of edits when autorun is on.
func handleWorkspaceChanges(
	ctx context.Context,
	changes *watcher.Debouncer,
	syncer *indexSyncer,
	projectRunner *runner.Runner,
	autoRun bool,
	logger *slog.Logger,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-changes.Output():
			if !ok {
				return
			}
			result := syncer.Sync()
			logger.Debug("workspace changed",
				"events", len(batch),
				"indexed", result.MissingFiles+result.ModifiedFiles,
				"removed", result.StaleFiles,
			)
			if autoRun {
				projectRunner.Schedule(ctx, editRunDelay)
			}
		}
	}
}

func runRegister() {
	serverName := register.DeriveServerName(os.Args[0])
	if err := register.Run(serverName, os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, register.ErrUsage) {
			register.Usage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runOnce runs the project once and prints the output on stdout and the
// console on stderr. It returns the process exit code.
func runOnce(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	logger := setupLogger(cfg.LogLevel, cfg.LogFile)

	ws := workspace.New(nil)
	if cfg.ProjectDir != "" {
		matcher := ignore.NewMatcher(ignore.MatcherOptions{
			RootDir:     cfg.ProjectDir,
			Excludes:    cfg.Excludes,
			MaxFileSize: cfg.MaxFileSize,
		})
		if _, err := loadInto(ws, matcher, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	sink := console.NewSink()
	projectRunner, err := runner.New(ws, sink, logger, runner.Options{
		Entry:     cfg.Entry,
		CacheSize: cfg.CacheSize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer projectRunner.Close()

	result, err := projectRunner.Run(context.Background())
	fmt.Fprintln(os.Stderr, console.Render(sink.Messages()))
	if err != nil {
		return 1
	}

	output := result.Output
	if len(cfg.Args) > 0 && cfg.Args[0] == "document" {
		output = preview.Document(output)
	}
	fmt.Fprintln(os.Stdout, output)
	return 0
}

// loadInto replaces the workspace project with the directory matcher is
// rooted at.
func loadInto(ws *workspace.Workspace, matcher *ignore.Matcher, logger *slog.Logger) (loader.Stats, error) {
	root, stats, err := loader.LoadDir(matcher.RootDir(), matcher, logger)
	if err != nil {
		return stats, err
	}
	if err := ws.Load(root); err != nil {
		return stats, err
	}
	return stats, nil
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
