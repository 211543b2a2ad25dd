package models

import "time"

// Destination is a host to probe and the label it is logged under
type Destination struct {
	Host  string `mapstructure:"host"`
	Label string `mapstructure:"label"`
}

// RTTStats holds the round-trip summary reported by ping, in milliseconds
type RTTStats struct {
	Min float64 `json:"min_ms"`
	Avg float64 `json:"avg_ms"`
	Max float64 `json:"max_ms"`
	Dev float64 `json:"dev_ms"`
}

// ProbeResult is the outcome of pinging one destination
type ProbeResult struct {
	Timestamp   time.Time
	Destination Destination
	Output      string
	RoundTrip   []string  // lines of Output containing "round", in order
	Stats       *RTTStats // nil when the summary line was not recognised
	Err         error
}

// Success reports whether the ping command completed without error
func (r ProbeResult) Success() bool {
	return r.Err == nil
}
