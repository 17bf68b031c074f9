package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/attackharvest/attackharvest/internal/model"
)

// HarvestDB provides SQLite-based storage for harvest runs and their
// per-URL records.
type HarvestDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HarvestDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HarvestDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*HarvestDB, error) {
	dbPath := filepath.Join(dbDir, "attackharvest.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple connections just contend.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HarvestDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HarvestDB) Close() error {
	return hdb.db.Close()
}

// Path returns the path of the underlying database file.
func (hdb *HarvestDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HarvestDB) createTables() error {
	schema := `
	-- Harvest runs store one row per invocation of the harvester
	CREATE TABLE IF NOT EXISTS harvest_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started DATETIME NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		output_dir TEXT NOT NULL,
		selector TEXT NOT NULL,
		total INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON harvest_runs(started);

	-- Harvest records store individual URL outcomes within a run
	CREATE TABLE IF NOT EXISTS harvest_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES harvest_runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		output_file TEXT,
		bytes INTEGER NOT NULL DEFAULT 0,
		elapsed_ms INTEGER NOT NULL,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_records_run ON harvest_records(run_id);
	CREATE INDEX IF NOT EXISTS idx_records_url ON harvest_records(url);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport stores a complete harvest run and its per-URL records.
// The run and records are written in one transaction so history never
// contains a run without its records.
func (hdb *HarvestDB) SaveReport(ctx context.Context, report *model.HarvestReport) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	result, err := tx.ExecContext(ctx, `
	INSERT INTO harvest_runs (started, elapsed_ms, output_dir, selector, total, succeeded, failed)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.Started.UTC().Format(time.RFC3339Nano),
		report.Elapsed.Milliseconds(),
		report.OutputDir,
		report.Selector,
		report.Total(),
		report.Succeeded(),
		report.FailedCount(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert harvest run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO harvest_records (run_id, url, output_file, bytes, elapsed_ms, error)
	VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i := range report.Records {
		rec := &report.Records[i]
		if _, err := stmt.ExecContext(ctx,
			runID,
			rec.URL,
			rec.OutputFile,
			rec.Bytes,
			rec.Elapsed.Milliseconds(),
			rec.Error,
		); err != nil {
			return 0, fmt.Errorf("failed to insert harvest record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit harvest run: %w", err)
	}
	return runID, nil
}

// RunSummary is one row of harvest history.
type RunSummary struct {
	ID        int64
	Started   time.Time
	Elapsed   time.Duration
	OutputDir string
	Selector  string
	Total     int
	Succeeded int
	Failed    int
}

// RecentRuns returns the most recent harvest runs, newest first.
func (hdb *HarvestDB) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT id, started, elapsed_ms, output_dir, selector, total, succeeded, failed
	FROM harvest_runs
	ORDER BY id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query harvest runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		var started string
		var elapsedMS int64
		if err := rows.Scan(&run.ID, &started, &elapsedMS, &run.OutputDir,
			&run.Selector, &run.Total, &run.Succeeded, &run.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan harvest run: %w", err)
		}
		run.Started = parseTimestamp(started)
		run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunRecords returns the per-URL records of a run, in insertion order.
func (hdb *HarvestDB) RunRecords(ctx context.Context, runID int64) ([]model.HarvestRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT url, output_file, bytes, elapsed_ms, error
	FROM harvest_records
	WHERE run_id = ?
	ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query harvest records: %w", err)
	}
	defer rows.Close()

	var records []model.HarvestRecord
	for rows.Next() {
		var rec model.HarvestRecord
		var outputFile, errText sql.NullString
		var elapsedMS int64
		if err := rows.Scan(&rec.URL, &outputFile, &rec.Bytes, &elapsedMS, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan harvest record: %w", err)
		}
		rec.OutputFile = outputFile.String
		rec.Error = errText.String
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// parseTimestamp parses a timestamp stored by SaveReport. SQLite may hand
// back slightly different formats depending on how the value was written,
// so a few layouts are tried before giving up.
func parseTimestamp(s string) time.Time {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
