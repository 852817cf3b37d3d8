// Package sqlconsole runs SQL scripts against an embedded in-memory database
// and reports each statement to the playground console.
package sqlconsole

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/lexandro/playground-mcp/console"

	_ "modernc.org/sqlite"
)

const (
	// DefaultDriver is the database/sql driver registered by modernc.org/sqlite.
	DefaultDriver = "sqlite"
	// DefaultDSN opens a private in-memory database.
	DefaultDSN = ":memory:"
)

// ErrNotReady is returned by operations attempted before the engine is ready.
var ErrNotReady = errors.New("database not initialized")

// State is the engine lifecycle.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Engine owns the embedded database. Start opens it in the background;
// scripts are refused until Ready is closed with StateReady.
type Engine struct {
	driver string
	dsn    string
	sink   *console.Sink
	logger *slog.Logger

	state     atomic.Int32
	startOnce sync.Once
	ready     chan struct{}
	startErr  error

	// mu serialises scripts; the database has a single connection.
	mu sync.Mutex
	db *sql.DB
}

// NewEngine creates an engine that will open dsn with driver on Start.
func NewEngine(driver, dsn string, sink *console.Sink, logger *slog.Logger) *Engine {
	return &Engine{
		driver: driver,
		dsn:    dsn,
		sink:   sink,
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Ready is closed once the engine is ready or has failed to start.
func (e *Engine) Ready() <-chan struct{} {
	return e.ready
}

// Start begins opening the database in the background. Only the first call
// has an effect.
func (e *Engine) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		e.state.Store(int32(StateInitializing))
		go e.open(ctx)
	})
}

func (e *Engine) open(ctx context.Context) {
	defer close(e.ready)

	db, err := sql.Open(e.driver, e.dsn)
	if err == nil {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		if err = db.PingContext(ctx); err != nil {
			db.Close()
		}
	}

	if err != nil {
		e.startErr = fmt.Errorf("open %s database: %w", e.driver, err)
		e.state.Store(int32(StateFailed))
		e.logger.Error("SQL engine failed to start", "driver", e.driver, "error", err)
		e.sink.Append(console.KindError, "Failed to initialize SQL database")
		return
	}

	e.mu.Lock()
	e.db = db
	e.mu.Unlock()
	e.state.Store(int32(StateReady))
	e.logger.Info("SQL engine ready", "driver", e.driver, "dsn", e.dsn)
	e.sink.Append(console.KindInfo, "SQL database initialized (SQLite in-memory)")
}

// WaitReady blocks until the engine has started, failed or ctx is done.
func (e *Engine) WaitReady(ctx context.Context) error {
	if e.State() == StateUninitialized {
		return ErrNotReady
	}
	select {
	case <-e.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	if e.State() != StateReady {
		return fmt.Errorf("%w: %v", ErrNotReady, e.startErr)
	}
	return nil
}

// Close releases the database.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	return err
}

// ClearDatabase drops every user table.
func (e *Engine) ClearDatabase(ctx context.Context) error {
	if e.State() != StateReady {
		return ErrNotReady
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return ErrNotReady
	}

	tables, err := e.userTables(ctx)
	if err == nil {
		for _, table := range tables {
			if _, err = e.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
				break
			}
		}
	}
	if err != nil {
		e.sink.Append(console.KindError, "Error clearing database: "+err.Error())
		return fmt.Errorf("clear database: %w", err)
	}
	e.sink.Append(console.KindInfo, "Database cleared")
	return nil
}

// Tables lists the user tables in name order.
func (e *Engine) Tables(ctx context.Context) ([]string, error) {
	if e.State() != StateReady {
		return nil, ErrNotReady
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return nil, ErrNotReady
	}
	return e.userTables(ctx)
}

func (e *Engine) userTables(ctx context.Context) ([]string, error) {
	rows, err := e.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
