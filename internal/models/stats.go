package models

import "time"

// Stats represents aggregated statistics for a destination
type Stats struct {
	Label       string  `json:"label"`
	TotalProbes int     `json:"total_probes"`
	Successful  int     `json:"successful_probes"`
	AvgRTT      float64 `json:"avg_rtt"`
	MaxRTT      float64 `json:"max_rtt"`
	MinRTT      float64 `json:"min_rtt"`
}

// HistoryPoint is a stored probe as read back for reporting
type HistoryPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	Label        string    `json:"label"`
	Host         string    `json:"host"`
	Success      bool      `json:"success"`
	AvgRTT       float64   `json:"avg_rtt_ms"`
	ErrorMessage string    `json:"error_message"`
}
