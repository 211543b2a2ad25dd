package ping

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vsi-tools/internal/command"
	"vsi-tools/internal/models"
)

const macOSOutput = `PING s3.eu-es.cloud-object-storage.appdomain.cloud (161.156.1.1): 56 data bytes
64 bytes from 161.156.1.1: icmp_seq=0 ttl=52 time=31.204 ms
64 bytes from 161.156.1.1: icmp_seq=1 ttl=52 time=30.977 ms

--- s3.eu-es.cloud-object-storage.appdomain.cloud ping statistics ---
15 packets transmitted, 15 packets received, 0.0% packet loss
round-trip min/avg/max/stddev = 30.977/31.090/31.204/0.113 ms
`

const linuxOutput = `PING 8.8.8.8 (8.8.8.8) 56(84) bytes of data.
64 bytes from 8.8.8.8: icmp_seq=1 ttl=118 time=12.3 ms

--- 8.8.8.8 ping statistics ---
1 packets transmitted, 1 received, 0% packet loss, time 0ms
rtt min/avg/max/mdev = 12.300/12.300/12.300/0.000 ms
`

func TestRoundTripLines(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected []string
	}{
		{
			name:     "macOS summary",
			output:   macOSOutput,
			expected: []string{"round-trip min/avg/max/stddev = 30.977/31.090/31.204/0.113 ms"},
		},
		{
			name:     "Linux iputils summary is not matched",
			output:   linuxOutput,
			expected: nil,
		},
		{
			name:     "keeps every matching line in order",
			output:   "a round one\nnothing\nsecond round\r\nround-trip min/avg/max = 1/2/3 ms",
			expected: []string{"a round one", "second round", "round-trip min/avg/max = 1/2/3 ms"},
		},
		{
			name:     "case sensitive",
			output:   "Round-trip times\nROUND",
			expected: nil,
		},
		{
			name:     "empty output",
			output:   "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoundTripLines(tt.output))
		})
	}
}

func TestParseRTTStats(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected *models.RTTStats
	}{
		{
			name:     "macOS summary line",
			output:   macOSOutput,
			expected: &models.RTTStats{Min: 30.977, Avg: 31.090, Max: 31.204, Dev: 0.113},
		},
		{
			name:     "Linux summary line",
			output:   linuxOutput,
			expected: &models.RTTStats{Min: 12.3, Avg: 12.3, Max: 12.3, Dev: 0},
		},
		{
			name:     "BusyBox summary without deviation",
			output:   "round-trip min/avg/max = 12.3/14.5/20.1 ms",
			expected: &models.RTTStats{Min: 12.3, Avg: 14.5, Max: 20.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := ParseRTTStats(tt.output)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected.Min, stats.Min, 1e-9)
			assert.InDelta(t, tt.expected.Avg, stats.Avg, 1e-9)
			assert.InDelta(t, tt.expected.Max, stats.Max, 1e-9)
			assert.InDelta(t, tt.expected.Dev, stats.Dev, 1e-9)
		})
	}
}

func TestParseRTTStatsUnrecognized(t *testing.T) {
	for _, output := range []string{
		"",
		"ping: unknown host example.invalid",
		"64 bytes from 8.8.8.8: icmp_seq=0 ttl=118 time=44.347 ms",
		"round-trip min/avg/max = 1.2.3/4/5 ms",
	} {
		_, err := ParseRTTStats(output)
		assert.ErrorIs(t, err, ErrNoSummary, "output %q", output)
	}
}

type fakeRunner struct {
	output []byte
	err    error
	calls  []string
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f.CombinedOutput(ctx, name, args...)
}

func (f *fakeRunner) CombinedOutput(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, strings.Join(append([]string{name}, args...), " "))
	return f.output, f.err
}

func TestPingerProbe(t *testing.T) {
	runner := &fakeRunner{output: []byte(macOSOutput)}
	dest := models.Destination{Host: "s3.eu-es.cloud-object-storage.appdomain.cloud", Label: "Madrid"}

	result := New(runner, 0).Probe(context.Background(), dest)

	require.True(t, result.Success())
	assert.Equal(t, dest, result.Destination)
	assert.Equal(t, []string{"round-trip min/avg/max/stddev = 30.977/31.090/31.204/0.113 ms"}, result.RoundTrip)
	require.NotNil(t, result.Stats)
	assert.InDelta(t, 31.090, result.Stats.Avg, 1e-9)
	assert.False(t, result.Timestamp.IsZero())
	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "15 s3.eu-es.cloud-object-storage.appdomain.cloud")
}

func TestPingerProbeFailure(t *testing.T) {
	runErr := &command.Error{Command: "ping -c 15 unreachable.invalid", Err: errors.New("exit status 2")}
	runner := &fakeRunner{output: []byte("ping: unreachable.invalid: Name or service not known\n"), err: runErr}

	result := New(runner, 3).Probe(context.Background(), models.Destination{Host: "unreachable.invalid", Label: "Nowhere"})

	assert.False(t, result.Success())
	assert.ErrorIs(t, result.Err, runErr)
	assert.Nil(t, result.RoundTrip)
	assert.Nil(t, result.Stats)
	assert.Contains(t, runner.calls[0], "3 unreachable.invalid")
}

func TestPingerProbeFailureKeepsDiagnostic(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in for ping")
	}

	dir := t.TempDir()
	script := "#!/bin/sh\necho \"ping: $3: Name or service not known\"\nexit 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ping"), []byte(script), 0o755))
	t.Setenv("PATH", dir)

	result := New(command.New(), 15).Probe(context.Background(), models.Destination{Host: "s3.invalid", Label: "Nowhere"})

	require.False(t, result.Success())
	assert.Equal(t, "command failed: ping -c 15 s3.invalid: exit status 2: ping: s3.invalid: Name or service not known", result.Err.Error())
	assert.Equal(t, "ping: s3.invalid: Name or service not known\n", result.Output)
}

func TestPingerProbeLocalhost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ping integration test in short mode")
	}

	if _, err := exec.LookPath("ping"); err != nil {
		t.Skip("ping binary not available on PATH")
	}

	result := New(command.New(), 1).Probe(context.Background(), models.Destination{Host: "127.0.0.1", Label: "loopback"})
	if !result.Success() {
		t.Skipf("skipping due to unexpected ping failure: %v", result.Err)
	}

	t.Logf("Probe result: stats=%+v round=%v", result.Stats, result.RoundTrip)
	assert.NotEmpty(t, result.Output)
}
