package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"vsi-tools/internal/models"
)

func (g *Generator) generateLatencyChart(outputDir, label string, series []models.HistoryPoint) error {
	var timestamps []time.Time
	var values []float64
	maxValue := 0.0

	for _, p := range series {
		if !p.Success || p.AvgRTT <= 0 {
			continue
		}
		timestamps = append(timestamps, p.Timestamp)
		values = append(values, p.AvgRTT)
		if p.AvgRTT > maxValue {
			maxValue = p.AvgRTT
		}
	}

	// go-chart needs at least two points to build an x range
	if len(values) < 2 {
		return fmt.Errorf("not enough successful probes to chart (%d)", len(values))
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("Average Round-Trip Time - %s", label),
		TitleStyle: chart.Style{
			FontSize: 16,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    20,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:  1200,
		Height: 400,
		XAxis: chart.XAxis{
			Name: "Time",
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			ValueFormatter: chart.TimeHourValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Avg RTT (ms)",
			Style: chart.Style{
				StrokeColor: drawing.ColorBlack,
				FontSize:    10,
			},
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: maxValue * 1.2,
			},
			GridMajorStyle: chart.Style{
				StrokeColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
				StrokeWidth: 1.0,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: label,
				Style: chart.Style{
					StrokeColor: chart.GetDefaultColor(0),
					StrokeWidth: 2,
				},
				XValues: timestamps,
				YValues: values,
			},
		},
	}

	// Scheduled runs are sparse, so smooth over a handful of entries
	if len(values) > 5 {
		ts := graph.Series[0].(chart.TimeSeries)
		graph.Series = append(graph.Series, chart.SMASeries{
			Name: "Moving Avg",
			Style: chart.Style{
				StrokeColor:     chart.GetDefaultColor(1),
				StrokeWidth:     2,
				StrokeDashArray: []float64{5, 5},
			},
			InnerSeries: ts,
			Period:      5,
		})
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	filename := filepath.Join(outputDir, fmt.Sprintf("latency_%s.png", sanitizeFilename(label)))
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

// sanitizeFilename keeps letters, digits, '-' and '_' and maps everything
// else to '_'
func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
}
