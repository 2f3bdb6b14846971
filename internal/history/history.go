// Package history provides a SQLite-backed record of extraction runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/stevebcampbell/vsdx-extraction/internal/vsdx"
)

// Record is one extraction run as stored in history.
type Record struct {
	ID            string    `json:"id"`
	InputPath     string    `json:"input_path"`
	OutputDir     string    `json:"output_dir"`
	Success       bool      `json:"success"`
	Pages         int       `json:"pages"`
	Masters       int       `json:"masters"`
	TotalElements int       `json:"total_elements"`
	Diagnostics   int       `json:"diagnostics"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store persists extraction run records in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS extractions (
		id TEXT PRIMARY KEY,
		input_path TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		success INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		masters INTEGER NOT NULL,
		total_elements INTEGER NOT NULL,
		diagnostics INTEGER NOT NULL,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_extractions_created_at ON extractions(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add records one extraction run (successful or failed) and returns the stored record.
func (s *Store) Add(ctx context.Context, inputPath string, result *vsdx.Result) (*Record, error) {
	summary := vsdx.Summarize(result)
	rec := &Record{
		ID:            uuid.New().String(),
		InputPath:     inputPath,
		OutputDir:     result.OutputDir,
		Success:       result.Success,
		Pages:         summary.PageCount,
		Masters:       summary.MasterCount,
		TotalElements: summary.TotalElements,
		Diagnostics:   summary.Diagnostics,
		Error:         result.Error,
		CreatedAt:     time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extractions (id, input_path, output_dir, success, pages, masters, total_elements, diagnostics, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.InputPath, rec.OutputDir, rec.Success, rec.Pages, rec.Masters,
		rec.TotalElements, rec.Diagnostics, rec.Error, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}
	return rec, nil
}

// Get returns a record by ID.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input_path, output_dir, success, pages, masters, total_elements, diagnostics, error, created_at
		 FROM extractions WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record not found: %s", id)
	}
	return rec, err
}

// List returns the most recent records, newest first, up to limit.
func (s *Store) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_path, output_dir, success, pages, masters, total_elements, diagnostics, error, created_at
		 FROM extractions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var errMsg sql.NullString
	if err := row.Scan(&rec.ID, &rec.InputPath, &rec.OutputDir, &rec.Success, &rec.Pages,
		&rec.Masters, &rec.TotalElements, &rec.Diagnostics, &errMsg, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Error = errMsg.String
	return &rec, nil
}
