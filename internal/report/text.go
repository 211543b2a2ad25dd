package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vsi-tools/internal/models"
)

func (g *Generator) generateTextReport(outputDir string, hours int, stats []models.Stats, points []models.HistoryPoint) error {
	filename := filepath.Join(outputDir, "summary.txt")
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "Latency Report\n")
	fmt.Fprintf(file, "Generated: %s\n", g.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "Period: Last %d hours\n\n", hours)
	fmt.Fprintln(file, strings.Repeat("=", 60))

	fmt.Fprintln(file, "\nOVERALL STATISTICS")

	if len(stats) == 0 {
		fmt.Fprintln(file, "No probes recorded in this period.")
	}

	for _, s := range stats {
		success := 0.0
		if s.TotalProbes > 0 {
			success = float64(s.Successful) / float64(s.TotalProbes) * 100
		}

		fmt.Fprintf(file, "Destination: %s\n", s.Label)
		fmt.Fprintf(file, "  Total Probes: %d\n", s.TotalProbes)
		fmt.Fprintf(file, "  Successful: %d (%.2f%%)\n", s.Successful, success)

		if s.AvgRTT > 0 {
			fmt.Fprintf(file, "  Average RTT: %.2f ms\n", s.AvgRTT)
			fmt.Fprintf(file, "  Min RTT: %.2f ms\n", s.MinRTT)
			fmt.Fprintf(file, "  Max RTT: %.2f ms\n", s.MaxRTT)
		}
		fmt.Fprintln(file)
	}

	fmt.Fprintln(file, strings.Repeat("=", 60))
	fmt.Fprintln(file, "\nFAILED PROBES")

	failures := 0
	for _, p := range points {
		if p.Success {
			continue
		}

		failures++
		fmt.Fprintf(file, "%s  %s (%s)\n", p.Timestamp.Format("2006-01-02 15:04:05"), p.Label, p.Host)
		fmt.Fprintf(file, "  Error: %s\n", p.ErrorMessage)
	}

	if failures == 0 {
		fmt.Fprintln(file, "No failed probes.")
	} else {
		fmt.Fprintf(file, "\nTotal Failures: %d\n", failures)
	}

	fmt.Fprintln(file, strings.Repeat("=", 60))

	return nil
}
