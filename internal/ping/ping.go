package ping

import (
	"context"
	"errors"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"vsi-tools/internal/command"
	"vsi-tools/internal/models"
)

// DefaultCount is the number of echo requests sent per probe.
const DefaultCount = 15

// ErrNoSummary is returned when ping output has no recognisable round-trip summary.
var ErrNoSummary = errors.New("no round-trip summary in ping output")

// Linux: "rtt min/avg/max/mdev = 1.0/2.0/3.0/0.5 ms"
// macOS: "round-trip min/avg/max/stddev = 1.0/2.0/3.0/0.5 ms"
// BusyBox: "round-trip min/avg/max = 1.0/2.0/3.0 ms"
var summaryRegexp = regexp.MustCompile(`(?m)(?:round-trip|rtt) min/avg/max(?:/(?:stddev|mdev))? = ([0-9.]+)/([0-9.]+)/([0-9.]+)(?:/([0-9.]+))? ms`)

// Pinger probes destinations with the system ping utility
type Pinger struct {
	runner command.Runner
	count  int
}

// New creates a new Pinger sending count echo requests per probe
func New(runner command.Runner, count int) *Pinger {
	if count <= 0 {
		count = DefaultCount
	}

	return &Pinger{
		runner: runner,
		count:  count,
	}
}

// Probe pings the destination and waits for ping to exit. A failed command
// is reported through the result's Err, never as a panic or abort.
func (p *Pinger) Probe(ctx context.Context, dest models.Destination) models.ProbeResult {
	result := models.ProbeResult{
		Timestamp:   time.Now(),
		Destination: dest,
	}

	output, err := p.runner.CombinedOutput(ctx, "ping", p.args(dest.Host)...)
	result.Output = string(output)

	if err != nil {
		result.Err = err
		return result
	}

	result.RoundTrip = RoundTripLines(result.Output)
	if stats, err := ParseRTTStats(result.Output); err == nil {
		result.Stats = stats
	}

	return result
}

func (p *Pinger) args(host string) []string {
	// Platform-specific repeat count flag
	if runtime.GOOS == "windows" {
		return []string{"-n", strconv.Itoa(p.count), host}
	}
	return []string{"-c", strconv.Itoa(p.count), host}
}

// RoundTripLines returns the lines of output containing "round", in order.
// This matches the BSD/macOS and BusyBox summary; iputils prints "rtt"
// instead and yields no lines.
func RoundTripLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.Contains(line, "round") {
			lines = append(lines, line)
		}
	}

	return lines
}

// ParseRTTStats extracts the min/avg/max/deviation summary from ping output.
func ParseRTTStats(output string) (*models.RTTStats, error) {
	matches := summaryRegexp.FindStringSubmatch(output)
	if matches == nil {
		return nil, ErrNoSummary
	}

	values := make([]float64, 4)
	for i, raw := range matches[1:] {
		if raw == "" {
			continue
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, ErrNoSummary
		}
		values[i] = v
	}

	return &models.RTTStats{
		Min: values[0],
		Avg: values[1],
		Max: values[2],
		Dev: values[3],
	}, nil
}
