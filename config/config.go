// Package config resolves the server settings from the command line, the
// environment and an optional .env file.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lexandro/playground-mcp/ignore"
	"github.com/lexandro/playground-mcp/runner"
	"github.com/lexandro/playground-mcp/sqlconsole"
	"github.com/lexandro/playground-mcp/vfs"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PLAYGROUND_"

// Config holds the resolved settings.
type Config struct {
	ProjectDir   string
	Watch        bool
	Excludes     []string
	MaxFileSize  int64
	Entry        string
	RunDelay     time.Duration
	AutoRun      bool
	AutoRunDelay time.Duration
	SQLDriver    string
	SQLDSN       string
	CacheSize    int
	LogLevel     string
	LogFile      string

	// Args are the positional arguments left after the flags.
	Args []string
}

// excludePatterns is a repeatable flag.
type excludePatterns []string

func (e *excludePatterns) String() string { return strings.Join(*e, ", ") }
func (e *excludePatterns) Set(value string) error {
	*e = append(*e, value)
	return nil
}

// Load parses args (without the program name). Values from the environment
// and from a .env file in the working directory act as defaults that
// explicit flags override.
func Load(args []string) (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{}
	var excludes excludePatterns
	if env := os.Getenv(EnvPrefix + "EXCLUDE"); env != "" {
		for _, p := range strings.Split(env, ",") {
			if p = strings.TrimSpace(p); p != "" {
				excludes = append(excludes, p)
			}
		}
	}

	fs := flag.NewFlagSet("playground-mcp", flag.ContinueOnError)
	fs.StringVar(&cfg.ProjectDir, "project", envString("PROJECT", ""), "Directory to import as the project (default: built-in sample project)")
	fs.BoolVar(&cfg.Watch, "watch", envBool("WATCH", false), "Apply changes made on disk to the imported project")
	fs.Var(&excludes, "exclude", "Extra ignore pattern for imports (repeatable)")
	fs.Int64Var(&cfg.MaxFileSize, "max-file-size", envInt64("MAX_FILE_SIZE", ignore.DefaultMaxFileSize), "Largest file imported, in bytes")
	fs.StringVar(&cfg.Entry, "entry", envString("ENTRY", vfs.DefaultEntryPath), "File run when no document is active")
	fs.DurationVar(&cfg.RunDelay, "run-delay", envDuration("RUN_DELAY", runner.DefaultDelay), "Delay before each run")
	fs.BoolVar(&cfg.AutoRun, "autorun", envBool("AUTORUN", true), "Run the project after start-up and after edits")
	fs.DurationVar(&cfg.AutoRunDelay, "autorun-delay", envDuration("AUTORUN_DELAY", time.Second), "Delay before the start-up run")
	fs.StringVar(&cfg.SQLDriver, "sql-driver", envString("SQL_DRIVER", sqlconsole.DefaultDriver), "database/sql driver for the query console")
	fs.StringVar(&cfg.SQLDSN, "sql-dsn", envString("SQL_DSN", sqlconsole.DefaultDSN), "Data source name for the query console")
	fs.IntVar(&cfg.CacheSize, "cache-size", int(envInt64("CACHE_SIZE", runner.DefaultCacheSize)), "Number of cached run outputs")
	fs.StringVar(&cfg.LogLevel, "log-level", envString("LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	fs.StringVar(&cfg.LogFile, "log-file", envString("LOG_FILE", ""), "Log file path (default: playground-mcp.log in the working directory)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Excludes = excludes
	cfg.Args = fs.Args()

	if cfg.ProjectDir != "" {
		abs, err := filepath.Abs(cfg.ProjectDir)
		if err != nil {
			return nil, fmt.Errorf("resolve project directory: %w", err)
		}
		cfg.ProjectDir = abs
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "playground-mcp.log"
	}
	if !strings.HasPrefix(cfg.Entry, "/") {
		cfg.Entry = "/" + cfg.Entry
	}
	if cfg.Watch && cfg.ProjectDir == "" {
		return nil, fmt.Errorf("--watch requires --project")
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(envString(key, "")); err == nil {
		return b
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if n, err := strconv.ParseInt(envString(key, ""), 10, 64); err == nil {
		return n
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(envString(key, "")); err == nil {
		return d
	}
	return fallback
}
