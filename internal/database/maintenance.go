package database

import (
	"context"
	"fmt"
)

// Prune deletes probe history older than the given number of days. The text
// log is never touched.
func (db *DB) Prune(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}

	res, err := db.ExecContext(ctx,
		`DELETE FROM probe_results WHERE timestamp < datetime('now', '-' || ? || ' days')`, days)
	if err != nil {
		return 0, fmt.Errorf("failed to prune probe history: %w", err)
	}

	return res.RowsAffected()
}
