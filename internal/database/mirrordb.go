package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// dbFileName is the SQLite file created inside the configured directory.
const dbFileName = "canvas-mirror.db"

// ErrDatabaseNotFound is returned by Open when the database file is
// absent and CreateIfNotExists is false.
var ErrDatabaseNotFound = errors.New("database not found")

// MirrorDB stores the history of mirror runs.
type MirrorDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures MirrorDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when absent.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a MirrorDB in the given directory.
// With CreateIfNotExists false, a missing database is an error; the
// history command uses this to distinguish "never ran" from "cannot
// open".
func Open(dbDir string, opts Options) (*MirrorDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite DSN: mode=rwc creates the file, mode=rw requires it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; the run is sequential anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	mdb := &MirrorDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // Open already failed
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := mdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Open already failed
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return mdb, nil
}

// Close closes the database connection.
func (mdb *MirrorDB) Close() error {
	return mdb.db.Close()
}

// createTables creates the schema if it doesn't exist.
func (mdb *MirrorDB) createTables() error {
	schema := `
	-- One row per completed mirror run
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		output_dir TEXT NOT NULL,
		courses INTEGER NOT NULL DEFAULT 0,
		modules INTEGER NOT NULL DEFAULT 0,
		items INTEGER NOT NULL DEFAULT 0,
		files_downloaded INTEGER NOT NULL DEFAULT 0,
		bytes_downloaded INTEGER NOT NULL DEFAULT 0,
		errors INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- One row per file physically downloaded during a run
	CREATE TABLE IF NOT EXISTS downloads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		file_id INTEGER NOT NULL,
		local_path TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_downloads_run ON downloads(run_id);
	CREATE INDEX IF NOT EXISTS idx_downloads_file ON downloads(file_id);
	`

	_, err := mdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord describes one completed mirror run.
type RunRecord struct {
	ID              string
	StartedAt       time.Time
	FinishedAt      time.Time
	OutputDir       string
	Courses         int
	Modules         int
	Items           int
	FilesDownloaded int
	BytesDownloaded int64
	Errors          int
}

// FileRecord describes one file downloaded during a run.
type FileRecord struct {
	RunID     string
	FileID    int64
	LocalPath string
	Size      int64
}

// RecordRun stores a completed run and its downloads in one transaction.
func (mdb *MirrorDB) RecordRun(ctx context.Context, run *RunRecord, files []FileRecord) error {
	tx, err := mdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, started_at, finished_at, output_dir, courses, modules, items, files_downloaded, bytes_downloaded, errors)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.FinishedAt, run.OutputDir,
		run.Courses, run.Modules, run.Items,
		run.FilesDownloaded, run.BytesDownloaded, run.Errors,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, f := range files {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO downloads (run_id, file_id, local_path, size)
		VALUES (?, ?, ?, ?)`,
			run.ID, f.FileID, f.LocalPath, f.Size,
		)
		if err != nil {
			return fmt.Errorf("insert download: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (mdb *MirrorDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := mdb.db.QueryContext(ctx, `
	SELECT id, started_at, finished_at, output_dir, courses, modules, items, files_downloaded, bytes_downloaded, errors
	FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.OutputDir,
			&r.Courses, &r.Modules, &r.Items,
			&r.FilesDownloaded, &r.BytesDownloaded, &r.Errors); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListDownloads returns the files downloaded during a specific run.
func (mdb *MirrorDB) ListDownloads(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := mdb.db.QueryContext(ctx, `
	SELECT run_id, file_id, local_path, size
	FROM downloads WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query downloads: %w", err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.RunID, &f.FileID, &f.LocalPath, &f.Size); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
