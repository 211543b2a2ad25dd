package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"vsi-tools/internal/models"
)

// SaveProbe saves a probe result to the database
func (db *DB) SaveProbe(ctx context.Context, result models.ProbeResult) error {
	query := `
        INSERT INTO probe_results (timestamp, label, host, success, min_rtt_ms, avg_rtt_ms, max_rtt_ms, dev_rtt_ms, round_trip, error_message)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	var minRTT, avgRTT, maxRTT, devRTT sql.NullFloat64
	if result.Stats != nil {
		minRTT = sql.NullFloat64{Float64: result.Stats.Min, Valid: true}
		avgRTT = sql.NullFloat64{Float64: result.Stats.Avg, Valid: true}
		maxRTT = sql.NullFloat64{Float64: result.Stats.Max, Valid: true}
		devRTT = sql.NullFloat64{Float64: result.Stats.Dev, Valid: true}
	}

	var errMsg sql.NullString
	if result.Err != nil {
		errMsg = sql.NullString{String: result.Err.Error(), Valid: true}
	}

	_, err := db.ExecContext(ctx, query,
		result.Timestamp.UTC().Format(timeLayout),
		result.Destination.Label,
		result.Destination.Host,
		result.Success(),
		minRTT,
		avgRTT,
		maxRTT,
		devRTT,
		strings.Join(result.RoundTrip, "\n"),
		errMsg,
	)
	if err != nil {
		return fmt.Errorf("failed to save probe for %s: %w", result.Destination.Label, err)
	}

	return nil
}

// GetRecent retrieves probes from the last hours, oldest first
func (db *DB) GetRecent(ctx context.Context, hours int) ([]models.HistoryPoint, error) {
	query := `
        SELECT timestamp, label, host, success, avg_rtt_ms, error_message
        FROM probe_results
        WHERE timestamp > datetime('now', '-' || ? || ' hours')
        ORDER BY timestamp, id
        LIMIT 10000
    `

	rows, err := db.QueryContext(ctx, query, hours)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.HistoryPoint
	for rows.Next() {
		var p models.HistoryPoint
		var ts string
		var avgRTT sql.NullFloat64
		var errMsg sql.NullString

		if err := rows.Scan(&ts, &p.Label, &p.Host, &p.Success, &avgRTT, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan probe row: %w", err)
		}

		parsed, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("invalid probe timestamp %q: %w", ts, err)
		}
		p.Timestamp = parsed

		if avgRTT.Valid {
			p.AvgRTT = avgRTT.Float64
		}
		if errMsg.Valid {
			p.ErrorMessage = errMsg.String
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

// GetStats retrieves aggregated statistics per destination
func (db *DB) GetStats(ctx context.Context, hours int) ([]models.Stats, error) {
	query := `
        SELECT
            label,
            COUNT(*) as total_probes,
            SUM(CASE WHEN success THEN 1 ELSE 0 END) as successful_probes,
            AVG(avg_rtt_ms) as avg_rtt,
            MAX(max_rtt_ms) as max_rtt,
            MIN(min_rtt_ms) as min_rtt
        FROM probe_results
        WHERE timestamp > datetime('now', '-' || ? || ' hours')
        GROUP BY label
        ORDER BY label
    `

	rows, err := db.QueryContext(ctx, query, hours)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.Stats
	for rows.Next() {
		var s models.Stats
		var avgRTT, maxRTT, minRTT sql.NullFloat64

		if err := rows.Scan(&s.Label, &s.TotalProbes, &s.Successful, &avgRTT, &maxRTT, &minRTT); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}

		if avgRTT.Valid {
			s.AvgRTT = avgRTT.Float64
			s.MaxRTT = maxRTT.Float64
			s.MinRTT = minRTT.Float64
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
