// Package store persists run history in a local SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded analysis run.
type Run struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Dataset       string    `json:"dataset"`
	Rows          int       `json:"rows"`
	ColorColumn   string    `json:"color_column,omitempty"`
	Color         int       `json:"color"`
	BlackAndWhite int       `json:"black_and_white"`
	Unknown       int       `json:"unknown"`
	DurationMS    int64     `json:"duration_ms"`
}

// Store manages the run history database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open creates or opens the history store at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		dataset TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		color_column TEXT,
		color INTEGER NOT NULL,
		black_and_white INTEGER NOT NULL,
		unknown INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores one run, assigning an id and timestamp when absent.
func (s *Store) RecordRun(r *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO runs (id, created_at, dataset, row_count, color_column,
			color, black_and_white, unknown, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.CreatedAt, r.Dataset, r.Rows, r.ColorColumn,
		r.Color, r.BlackAndWhite, r.Unknown, r.DurationMS)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns everything.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := `
		SELECT id, created_at, dataset, row_count, color_column,
			color, black_and_white, unknown, duration_ms
		FROM runs ORDER BY created_at DESC, id`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.Query(q+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(q)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var colorCol sql.NullString
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Dataset, &r.Rows, &colorCol,
			&r.Color, &r.BlackAndWhite, &r.Unknown, &r.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.ColorColumn = colorCol.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Clear removes all recorded runs.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM runs`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
