// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps assembled datasets in a local SQLite database so a
// run can be listed and re-exported without re-reading its source files.
// Only the three-array output and its run summary are stored.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/dti-datasets/internal/dataset"
	"github.com/pdiddy/dti-datasets/pkg/types"
)

// ErrRunNotFound reports a run id with no stored dataset.
var ErrRunNotFound = errors.New("run not found")

// Run describes one stored dataset.
type Run struct {
	ID        int64          `json:"id" yaml:"id"`
	RunID     string         `json:"run_id" yaml:"run_id"`
	Source    string         `json:"source" yaml:"source"`
	Kind      string         `json:"kind" yaml:"kind"`
	Label     string         `json:"label" yaml:"label"`
	Inputs    []string       `json:"inputs" yaml:"inputs"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
	Report    dataset.Report `json:"report" yaml:"report"`
}

// Store manages the dataset SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at cfg.Path and creates the
// schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			source TEXT NOT NULL,
			kind TEXT NOT NULL,
			label TEXT NOT NULL,
			inputs TEXT,
			created_at TEXT NOT NULL,
			emitted INTEGER NOT NULL,
			filtered INTEGER NOT NULL,
			malformed INTEGER NOT NULL,
			missing INTEGER NOT NULL,
			invalid INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pairs (
			run INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			ligand TEXT NOT NULL,
			target TEXT NOT NULL,
			label REAL NOT NULL,
			PRIMARY KEY (run, idx)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores ds with its run summary in one transaction and returns the
// assigned run number.
func (s *Store) Save(ctx context.Context, run Run, ds types.Dataset) (int64, error) {
	if !ds.Aligned() {
		return 0, fmt.Errorf("dataset sequences differ in length")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	inputsJSON, _ := json.Marshal(run.Inputs)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, source, kind, label, inputs, created_at,
			emitted, filtered, malformed, missing, invalid)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Source, run.Kind, run.Label, string(inputsJSON),
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Report.Emitted, run.Report.Filtered, run.Report.Malformed,
		run.Report.Missing, run.Report.Invalid,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pairs (run, idx, ligand, target, label) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range ds.Labels {
		if _, err := stmt.ExecContext(ctx, id, i, ds.Ligands[i], ds.Targets[i], ds.Labels[i]); err != nil {
			return 0, fmt.Errorf("inserting pair %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// Runs lists stored runs, newest first. An empty source lists every run.
func (s *Store) Runs(ctx context.Context, source string) ([]Run, error) {
	q := `SELECT id, run_id, source, kind, label, inputs, created_at,
			emitted, filtered, malformed, missing, invalid
		  FROM runs`
	var args []any
	if source != "" {
		q += ` WHERE source = ?`
		args = append(args, source)
	}
	q += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Load returns the run summary and dataset stored under id.
func (s *Store) Load(ctx context.Context, id int64) (Run, types.Dataset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, run_id, source, kind, label, inputs, created_at,
			emitted, filtered, malformed, missing, invalid
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, types.Dataset{}, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, types.Dataset{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT ligand, target, label FROM pairs WHERE run = ? ORDER BY idx`, id)
	if err != nil {
		return Run{}, types.Dataset{}, fmt.Errorf("querying pairs: %w", err)
	}
	defer rows.Close()

	var ds types.Dataset
	for rows.Next() {
		var (
			ligand, target string
			y              float64
		)
		if err := rows.Scan(&ligand, &target, &y); err != nil {
			return Run{}, types.Dataset{}, fmt.Errorf("scanning pair: %w", err)
		}
		ds.Append(ligand, target, y)
	}
	if err := rows.Err(); err != nil {
		return Run{}, types.Dataset{}, err
	}
	return run, ds, nil
}

// Delete removes a run and its pairs.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r          Run
		inputsJSON sql.NullString
		created    string
	)
	err := sc.Scan(&r.ID, &r.RunID, &r.Source, &r.Kind, &r.Label, &inputsJSON, &created,
		&r.Report.Emitted, &r.Report.Filtered, &r.Report.Malformed,
		&r.Report.Missing, &r.Report.Invalid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	if inputsJSON.Valid && inputsJSON.String != "" {
		_ = json.Unmarshal([]byte(inputsJSON.String), &r.Inputs)
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		r.CreatedAt = t
	}
	return r, nil
}
