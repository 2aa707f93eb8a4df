// Package registry keeps a SQLite ledger of training runs and their metrics.
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNoRuns is returned by Latest on an empty ledger.
var ErrNoRuns = errors.New("registry: no runs recorded")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	model_path   TEXT NOT NULL,
	params_json  TEXT,
	cv_score     REAL,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_metrics (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	position     INTEGER NOT NULL,
	record_json  TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// Run is one recorded training run.
type Run struct {
	ID        string
	ModelPath string
	Params    json.RawMessage
	CVScore   float64
	Metrics   []json.RawMessage // in metrics file order
	CreatedAt time.Time
}

// Store manages the run ledger.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the ledger database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a run and its metrics records. A missing ID gets a fresh uuid.
func (s *Store) Record(ctx context.Context, run Run, records ...any) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.Metrics = run.Metrics[:0]
	for i, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return Run{}, fmt.Errorf("marshal record %d: %w", i, err)
		}
		run.Metrics = append(run.Metrics, b)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var params any
	if len(run.Params) > 0 {
		params = string(run.Params)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, model_path, params_json, cv_score, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.ModelPath, params, run.CVScore, run.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	for i, m := range run.Metrics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_metrics (run_id, position, record_json) VALUES (?, ?, ?)`,
			run.ID, i, string(m),
		); err != nil {
			return Run{}, fmt.Errorf("insert metrics: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}
	return run, nil
}

// Latest returns the most recently recorded run.
func (s *Store) Latest(ctx context.Context) (Run, error) {
	var (
		run       Run
		params    sql.NullString
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, model_path, params_json, cv_score, created_at
		 FROM runs ORDER BY rowid DESC LIMIT 1`,
	).Scan(&run.ID, &run.ModelPath, &params, &run.CVScore, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, fmt.Errorf("query latest run: %w", err)
	}
	if params.Valid {
		run.Params = json.RawMessage(params.String)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT record_json FROM run_metrics WHERE run_id = ? ORDER BY position`, run.ID)
	if err != nil {
		return Run{}, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec string
		if err := rows.Scan(&rec); err != nil {
			return Run{}, fmt.Errorf("scan metrics: %w", err)
		}
		run.Metrics = append(run.Metrics, json.RawMessage(rec))
	}
	return run, rows.Err()
}
