package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists generation runs and their rows to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS generation_runs (
			run_id      TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			seed        INTEGER NOT NULL,
			start_date  TEXT NOT NULL,
			end_date    TEXT NOT NULL,
			output_path TEXT,
			row_count   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON generation_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS material_prices (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL REFERENCES generation_runs(run_id),
			date           TEXT NOT NULL,
			material       TEXT NOT NULL,
			unit           TEXT,
			price          REAL,
			rolling_avg_7d REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_run ON material_prices(run_id, material, date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run header and all of its rows in one transaction.
func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO generation_runs
		(run_id, timestamp, seed, start_date, end_date, output_path, row_count)
		VALUES (?,?,?,?,?,?,?)`,
		snap.RunID, time.Now().Unix(), snap.Seed,
		snap.Start.Format(dateLayout), snap.End.Format(dateLayout),
		snap.Output, len(snap.Table),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO material_prices
		(run_id, date, material, unit, price, rolling_avg_7d)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, o := range snap.Table {
		if _, err := stmt.Exec(snap.RunID, o.Date.Format(dateLayout), o.Material, o.Unit, o.Price, o.RollingAvg7d); err != nil {
			return fmt.Errorf("insert price: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
