package models

import "context"

// Pinger runs one ping probe against a destination
type Pinger interface {
	Probe(ctx context.Context, dest Destination) ProbeResult
}

// History persists probe results alongside the text log
type History interface {
	SaveProbe(ctx context.Context, result ProbeResult) error
}
