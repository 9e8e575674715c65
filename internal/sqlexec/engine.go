// Package sqlexec loads analysis records into an in-memory SQLite database
// and executes ad-hoc SQL against them.
package sqlexec

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"

	"github.com/thebtf/claude-sift/internal/source"
)

// writeStmtRe recognizes statements that mutate the database.
var writeStmtRe = regexp.MustCompile(`(?i)^\s*(insert|update|delete|create|drop|alter|replace)\b`)

// Engine wraps a throwaway in-memory database populated from the data
// directory. It is rebuilt per invocation; nothing is persisted.
type Engine struct {
	db *sql.DB
}

// Result carries the outcome of a query for rendering.
type Result struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Open creates an empty in-memory database with the analysis schema.
func Open(ctx context.Context) (*Engine, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// The pool must stay on one connection or each would see its own
	// private :memory: database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	engine := &Engine{db: db}
	if err := engine.createSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return engine, nil
}

// Close releases the database.
func (e *Engine) Close() error {
	return e.db.Close()
}

func (e *Engine) createSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE prompts (
			text       TEXT NOT NULL,
			session_id TEXT NOT NULL,
			project    TEXT,
			timestamp  TEXT
		);
		CREATE TABLE history (
			display   TEXT NOT NULL,
			project   TEXT,
			timestamp INTEGER
		);
		CREATE TABLE sessions (
			id          TEXT PRIMARY KEY,
			project     TEXT,
			path        TEXT,
			size_bytes  INTEGER,
			modified_at TEXT
		);
		CREATE TABLE todos (
			id         TEXT,
			content    TEXT NOT NULL,
			status     TEXT,
			priority   TEXT,
			session_id TEXT,
			agent_id   TEXT
		);
	`
	if _, err := e.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// LoadPrompts inserts prompt records.
func (e *Engine) LoadPrompts(ctx context.Context, prompts []source.Prompt) error {
	return e.bulkInsert(ctx, `INSERT INTO prompts (text, session_id, project, timestamp) VALUES (?, ?, ?, ?)`,
		len(prompts), func(i int) []any {
			p := prompts[i]
			return []any{p.Text, p.SessionID, p.Project, p.Timestamp.UTC().Format("2006-01-02T15:04:05Z")}
		})
}

// LoadHistory inserts history records.
func (e *Engine) LoadHistory(ctx context.Context, entries []source.HistoryEntry) error {
	return e.bulkInsert(ctx, `INSERT INTO history (display, project, timestamp) VALUES (?, ?, ?)`,
		len(entries), func(i int) []any {
			h := entries[i]
			return []any{h.Display, h.Project, h.Timestamp}
		})
}

// LoadSessions inserts discovered session files.
func (e *Engine) LoadSessions(ctx context.Context, files []source.SessionFile) error {
	return e.bulkInsert(ctx, `INSERT INTO sessions (id, project, path, size_bytes, modified_at) VALUES (?, ?, ?, ?, ?)`,
		len(files), func(i int) []any {
			f := files[i]
			return []any{f.SessionID, f.Project, f.Path, f.Size, f.ModTime.UTC().Format("2006-01-02T15:04:05Z")}
		})
}

// LoadTodos inserts todo items.
func (e *Engine) LoadTodos(ctx context.Context, items []source.TodoItem) error {
	return e.bulkInsert(ctx, `INSERT INTO todos (id, content, status, priority, session_id, agent_id) VALUES (?, ?, ?, ?, ?, ?)`,
		len(items), func(i int) []any {
			item := items[i]
			return []any{item.ID, item.Content, item.Status, item.Priority, item.SessionID, item.AgentID}
		})
}

func (e *Engine) bulkInsert(ctx context.Context, query string, n int, args func(int) []any) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare load: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("load row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit load: %w", err)
	}
	return nil
}

// Query executes the statement. Read statements run directly. Write
// statements require write=true; with dryRun they execute inside a
// transaction that is rolled back after reporting affected rows.
func (e *Engine) Query(ctx context.Context, query string, write, dryRun bool) (*Result, error) {
	if !writeStmtRe.MatchString(query) {
		return e.selectQuery(ctx, query)
	}

	if !write {
		return nil, fmt.Errorf("write statements require --write")
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin write: %w", err)
	}

	res, err := tx.ExecContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("execute write: %w", err)
	}
	affected, _ := res.RowsAffected()

	if dryRun {
		if err := tx.Rollback(); err != nil {
			return nil, fmt.Errorf("rollback dry run: %w", err)
		}
	} else if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit write: %w", err)
	}

	return &Result{
		Columns: []string{"rows_affected"},
		Rows:    [][]any{{affected}},
	}, nil
}

func (e *Engine) selectQuery(ctx context.Context, query string) (*Result, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}
