package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the ledger database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so a concurrent reader never blocks a running fetch.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetch_runs (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			started   INTEGER NOT NULL,
			finished  INTEGER NOT NULL,
			requested INTEGER,
			fetched   INTEGER,
			cached    INTEGER,
			failed    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_runs_started ON fetch_runs(started)`,

		`CREATE TABLE IF NOT EXISTS fetch_failures (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id   TEXT NOT NULL,
			symbol   TEXT NOT NULL,
			attempts INTEGER,
			reason   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_failures_run ON fetch_failures(run_id)`,

		`CREATE TABLE IF NOT EXISTS assembly_runs (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id   TEXT NOT NULL,
			started  INTEGER NOT NULL,
			finished INTEGER NOT NULL,
			loaded   INTEGER,
			skipped  INTEGER,
			dropped  INTEGER,
			symbols  INTEGER,
			rows     INTEGER,
			output   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assembly_runs_started ON assembly_runs(started)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordFetchRun(run *FetchRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO fetch_runs
		(run_id, started, finished, requested, fetched, cached, failed)
		VALUES (?,?,?,?,?,?,?)`,
		run.RunID, run.Started.Unix(), run.Finished.Unix(),
		run.Requested, run.Fetched, run.Cached, run.Failed,
	)
	return err
}

func (r *SQLiteRecorder) RecordFetchFailure(f *FetchFailure) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO fetch_failures
		(run_id, symbol, attempts, reason)
		VALUES (?,?,?,?)`,
		f.RunID, f.Symbol, f.Attempts, f.Reason,
	)
	return err
}

func (r *SQLiteRecorder) RecordAssemblyRun(run *AssemblyRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO assembly_runs
		(run_id, started, finished, loaded, skipped, dropped, symbols, rows, output)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		run.RunID, run.Started.Unix(), run.Finished.Unix(),
		run.Loaded, run.Skipped, run.Dropped, run.Symbols, run.Rows, run.Output,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
