package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at  TEXT    NOT NULL,
	directory   TEXT    NOT NULL,
	model       TEXT    NOT NULL,
	file_count  INTEGER NOT NULL,
	exit_code   INTEGER NOT NULL,
	output_file TEXT    NOT NULL DEFAULT '',
	tokens      INTEGER NOT NULL DEFAULT 0
)`

// Run is one recorded pipeline invocation.
type Run struct {
	ID         int64
	StartedAt  time.Time
	Directory  string
	Model      string
	FileCount  int
	ExitCode   int
	OutputFile string
	Tokens     int
}

// Store persists runs in a local sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends a run and returns its ID.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, directory, model, file_count, exit_code, output_file, tokens)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Directory, run.Model, run.FileCount, run.ExitCode, run.OutputFile, run.Tokens,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, directory, model, file_count, exit_code, output_file, tokens
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt string
		if err := rows.Scan(&run.ID, &startedAt, &run.Directory, &run.Model,
			&run.FileCount, &run.ExitCode, &run.OutputFile, &run.Tokens); err != nil {
			return nil, fmt.Errorf("failed to read history: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q in history: %w", startedAt, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
