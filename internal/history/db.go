// Package history keeps an append-only SQLite record of check verdicts.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection holding the check history.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Record is one row of the check_history table.
type Record struct {
	ID             int64
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	Host           string
	RemotePath     string
	Pattern        string
	DataSource     string
	State          string
	ExitCode       int
	AgeHours       sql.NullInt64
	Message        string
	EntriesListed  int
	EntriesFetched int
	CacheHits      int
}

// NewDB opens the history database at dataSourceName, creating its directory
// and schema when missing.
func NewDB(dataSourceName string, logger zerolog.Logger) (*DB, error) {
	logger = logger.With().Str("component", "HistoryDB").Logger()
	logger.Debug().Str("db_path", dataSourceName).Msg("Opening history database")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}

	db := &DB{
		db:     dbInstance,
		logger: logger,
	}

	if err := db.InitSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// InitSchema creates the check_history table if it doesn't already exist.
// Times are stored as Unix milliseconds.
func (d *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS check_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		host TEXT NOT NULL,
		remote_path TEXT NOT NULL,
		pattern TEXT NOT NULL,
		data_source TEXT NOT NULL,
		state TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		age_hours INTEGER,
		message TEXT NOT NULL,
		entries_listed INTEGER DEFAULT 0,
		entries_fetched INTEGER DEFAULT 0,
		cache_hits INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_check_history_pattern ON check_history (pattern, started_at);
	`
	if _, err := d.db.Exec(query); err != nil {
		d.logger.Error().Err(err).Msg("Failed to initialize schema")
		return err
	}
	return nil
}

// RecordVerdict appends rec and returns its row ID.
func (d *DB) RecordVerdict(rec Record) (int64, error) {
	query := `INSERT INTO check_history (
		run_id, started_at, finished_at, host, remote_path, pattern, data_source,
		state, exit_code, age_hours, message, entries_listed, entries_fetched, cache_hits
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := d.db.Exec(query,
		rec.RunID, rec.StartedAt.UnixMilli(), rec.FinishedAt.UnixMilli(),
		rec.Host, rec.RemotePath, rec.Pattern, rec.DataSource,
		rec.State, rec.ExitCode, rec.AgeHours, rec.Message,
		rec.EntriesListed, rec.EntriesFetched, rec.CacheHits,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert check history record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	d.logger.Debug().Int64("db_id", id).Str("run_id", rec.RunID).Str("state", rec.State).Msg("Recorded verdict")
	return id, nil
}

// Recent returns up to limit records for pattern, newest first. An empty
// pattern returns records of every pattern.
func (d *DB) Recent(pattern string, limit int) ([]Record, error) {
	query := `SELECT id, run_id, started_at, finished_at, host, remote_path, pattern, data_source,
		state, exit_code, age_hours, message, entries_listed, entries_fetched, cache_hits
		FROM check_history
		WHERE (? = '' OR pattern = ?)
		ORDER BY started_at DESC, id DESC
		LIMIT ?`

	rows, err := d.db.Query(query, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query check history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var startedAt, finishedAt int64
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &startedAt, &finishedAt, &rec.Host, &rec.RemotePath, &rec.Pattern, &rec.DataSource,
			&rec.State, &rec.ExitCode, &rec.AgeHours, &rec.Message, &rec.EntriesListed, &rec.EntriesFetched, &rec.CacheHits,
		); err != nil {
			return nil, fmt.Errorf("failed to scan check history row: %w", err)
		}
		rec.StartedAt = time.UnixMilli(startedAt)
		rec.FinishedAt = time.UnixMilli(finishedAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate check history: %w", err)
	}
	return records, nil
}
