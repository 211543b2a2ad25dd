package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// timeLayout matches sqlite's datetime() output so stored timestamps compare
// correctly against datetime('now', ...)
const timeLayout = "2006-01-02 15:04:05"

// DB wraps sql.DB with additional methods
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("database open failed: %w", err)
	}

	// Enable WAL mode for better concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")

	return &DB{db}, nil
}

// InitSchema creates all necessary tables
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
    CREATE TABLE IF NOT EXISTS probe_results (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp TEXT NOT NULL,
        label TEXT NOT NULL,
        host TEXT NOT NULL,
        success BOOLEAN NOT NULL,
        min_rtt_ms REAL,
        avg_rtt_ms REAL,
        max_rtt_ms REAL,
        dev_rtt_ms REAL,
        round_trip TEXT,
        error_message TEXT
    );

    CREATE INDEX IF NOT EXISTS idx_probe_timestamp ON probe_results(timestamp);
    CREATE INDEX IF NOT EXISTS idx_probe_label_timestamp ON probe_results(label, timestamp);
    `

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}

	return nil
}
