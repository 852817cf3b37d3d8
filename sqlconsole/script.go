package sqlconsole

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lexandro/playground-mcp/console"
)

// SampleScript is the script a new query console starts with.
const SampleScript = `-- SQL console backed by an in-memory SQLite database

-- Create a users table
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT UNIQUE NOT NULL,
  age INTEGER,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Insert some data
INSERT INTO users (name, email, age) VALUES
  ('John Doe', 'john@example.com', 25),
  ('Jane Smith', 'jane@example.com', 30),
  ('Bob Wilson', 'bob@example.com', 28);

-- Query the data
SELECT * FROM users;
`

const statementPreview = 50

// ResultSet is the tabular output of one statement.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// StatementError reports the statement that stopped a script.
type StatementError struct {
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("Error in query: %s\n%v", e.Statement, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// SplitStatements cuts script on ';' and drops blank and comment-only
// pieces. Leading "--" comment lines are removed from each statement.
// Semicolons inside string literals are not special.
func SplitStatements(script string) []string {
	var statements []string
	for _, piece := range strings.Split(script, ";") {
		if stmt := stripLeadingComments(piece); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func stripLeadingComments(piece string) string {
	rest := strings.TrimSpace(piece)
	for strings.HasPrefix(rest, "--") {
		newline := strings.IndexByte(rest, '\n')
		if newline < 0 {
			return ""
		}
		rest = strings.TrimSpace(rest[newline+1:])
	}
	return rest
}

// returnsRows reports whether stmt should go through QueryContext.
func returnsRows(stmt string) bool {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(strings.TrimLeft(fields[0], "(")) {
	case "SELECT", "WITH", "PRAGMA", "VALUES", "EXPLAIN":
		return true
	}
	return false
}

// RunScript executes the statements of script in order and returns the
// last result set that had rows, or nil. Execution stops at the first
// failing statement; earlier statements are not rolled back.
func (e *Engine) RunScript(ctx context.Context, script string) (*ResultSet, error) {
	if e.State() != StateReady {
		return nil, ErrNotReady
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return nil, ErrNotReady
	}

	var last *ResultSet
	for _, stmt := range SplitStatements(script) {
		result, err := e.execute(ctx, stmt)
		if err != nil {
			stmtErr := &StatementError{Statement: stmt, Err: err}
			e.sink.Append(console.KindError, "SQL Error: "+stmtErr.Error())
			e.logger.Debug("SQL statement failed", "statement", stmt, "error", err)
			return last, stmtErr
		}
		if result != nil && len(result.Rows) > 0 {
			last = result
		}
		e.sink.Append(console.KindQuery, preview(stmt))
	}

	if last != nil {
		e.sink.Append(console.KindQuery, fmt.Sprintf("Query returned %d row(s)", len(last.Rows)))
	} else {
		e.sink.Append(console.KindQuery, "Query executed successfully (no results to display)")
	}
	return last, nil
}

func (e *Engine) execute(ctx context.Context, stmt string) (*ResultSet, error) {
	if !returnsRows(stmt) {
		_, err := e.db.ExecContext(ctx, stmt)
		return nil, err
	}

	rows, err := e.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

func scanRows(rows *sql.Rows) (*ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	result := &ResultSet{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	return result, rows.Err()
}

func preview(stmt string) string {
	runes := []rune(stmt)
	if len(runes) <= statementPreview {
		return stmt
	}
	return string(runes[:statementPreview]) + "..."
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
