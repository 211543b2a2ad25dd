package latency

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"vsi-tools/internal/config"
	"vsi-tools/internal/models"
)

// Recorder probes each destination in turn and appends one entry per run
// to the log file.
type Recorder struct {
	config  *config.Config
	pinger  models.Pinger
	history models.History
	out     io.Writer
	log     *zap.SugaredLogger
	now     func() time.Time
}

// New creates a new Recorder. history may be nil.
func New(cfg *config.Config, pinger models.Pinger, history models.History, out io.Writer, log *zap.SugaredLogger) *Recorder {
	return &Recorder{
		config:  cfg,
		pinger:  pinger,
		history: history,
		out:     out,
		log:     log,
		now:     time.Now,
	}
}

// Run probes every destination sequentially and appends the resulting
// entry. A failed probe only affects its own section; the returned error is
// the append failure, if any.
func (r *Recorder) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Starting log performance check...")

	timestamp := r.now()

	var silent []string
	sections := make([]string, 0, len(r.config.Destinations))
	for _, dest := range r.config.Destinations {
		result := r.probe(ctx, dest)
		if result.Err == nil && len(result.RoundTrip) == 0 {
			silent = append(silent, dest.Label)
		}
		sections = append(sections, FormatSection(r.config.Source, result))
	}

	// iputils prints "rtt" instead of "round-trip", so this is the normal
	// case on most Linux hosts
	if len(silent) > 0 {
		r.log.Warnw("ping output has no round-trip lines", "destinations", silent)
	}

	entry := FormatEntry(timestamp, sections)
	if err := AppendEntry(r.config.LogFile, entry); err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Log performance check completed and saved to %s.\n", r.config.LogFile)
	return nil
}

func (r *Recorder) probe(ctx context.Context, dest models.Destination) models.ProbeResult {
	fmt.Fprintf(r.out, "Starting ping from %s to %s...\n", r.config.Source, dest.Label)

	result := r.pinger.Probe(ctx, dest)
	if result.Err != nil {
		r.log.Errorw("ping failed", "destination", dest.Label, "host", dest.Host, zap.Error(result.Err))
	} else {
		fmt.Fprintf(r.out, "Ping to %s completed.\n", dest.Label)
	}

	if r.history != nil {
		if err := r.history.SaveProbe(ctx, result); err != nil {
			r.log.Warnw("failed to record probe history", "destination", dest.Label, zap.Error(err))
		}
	}

	return result
}
