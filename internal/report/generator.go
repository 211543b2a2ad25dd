package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"vsi-tools/internal/models"
)

// HistoryReader is the part of the probe history a report needs
type HistoryReader interface {
	GetRecent(ctx context.Context, hours int) ([]models.HistoryPoint, error)
	GetStats(ctx context.Context, hours int) ([]models.Stats, error)
}

// Generator renders charts and a text summary from probe history
type Generator struct {
	history HistoryReader
	log     *zap.SugaredLogger
	now     func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(history HistoryReader, log *zap.SugaredLogger) *Generator {
	return &Generator{
		history: history,
		log:     log,
		now:     time.Now,
	}
}

// GenerateReport writes a timestamped report directory below outputDir and
// returns its path
func (g *Generator) GenerateReport(ctx context.Context, outputDir string, hours int) (string, error) {
	timestamp := g.now().Format("2006-01-02_15-04-05")
	reportDir := filepath.Join(outputDir, fmt.Sprintf("latency_report_%s", timestamp))
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	points, err := g.history.GetRecent(ctx, hours)
	if err != nil {
		return "", fmt.Errorf("failed to read probe history: %w", err)
	}

	stats, err := g.history.GetStats(ctx, hours)
	if err != nil {
		return "", fmt.Errorf("failed to read probe statistics: %w", err)
	}

	for label, series := range groupByLabel(points) {
		if err := g.generateLatencyChart(reportDir, label, series); err != nil {
			g.log.Warnw("failed to generate latency chart", "destination", label, zap.Error(err))
		}
	}

	if err := g.generateTextReport(reportDir, hours, stats, points); err != nil {
		return reportDir, fmt.Errorf("failed to generate text report: %w", err)
	}

	g.log.Infow("report generated", "dir", reportDir)
	return reportDir, nil
}

func groupByLabel(points []models.HistoryPoint) map[string][]models.HistoryPoint {
	grouped := make(map[string][]models.HistoryPoint)
	for _, p := range points {
		grouped[p.Label] = append(grouped[p.Label], p)
	}
	return grouped
}
