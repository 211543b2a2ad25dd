package latency

import (
	"fmt"
	"os"
	"strings"
	"time"

	"vsi-tools/internal/models"
)

// TimestampLayout renders the entry header, e.g.
// "Mon Oct 19 2026 10:00:00 GMT+0100 (WEST)".
const TimestampLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// FormatSection renders the block for one probe: a header naming source and
// destination, then either the round-trip lines or a single Error line.
func FormatSection(source string, result models.ProbeResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\nFrom %s to %s\n", source, result.Destination.Label)

	if result.Err != nil {
		fmt.Fprintf(&b, "Error: %s\n", result.Err)
		return b.String()
	}

	for _, line := range result.RoundTrip {
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// FormatEntry joins the sections behind a timestamp line and terminates the
// entry with two blank lines.
func FormatEntry(timestamp time.Time, sections []string) string {
	var b strings.Builder

	b.WriteString(timestamp.Format(TimestampLayout))
	b.WriteString("\n")
	for _, section := range sections {
		b.WriteString(section)
	}
	b.WriteString("\n\n")

	return b.String()
}

// AppendEntry appends entry to path with a single write, creating the file
// if needed. Existing content is never truncated.
func AppendEntry(path, entry string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	if _, err := f.Write([]byte(entry)); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	return nil
}
