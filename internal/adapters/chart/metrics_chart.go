// Package chart renders evaluation metrics as PNG bar charts.
package chart

import (
	"bytes"
	"fmt"

	"github.com/mikey/spam-ensemble/internal/core"
	chart "github.com/wcharczuk/go-chart"
	"github.com/wcharczuk/go-chart/drawing"
)

// bar colours for accuracy, precision, recall and F1
var colors = []drawing.Color{
	drawing.ColorFromHex("3498db"),
	drawing.ColorFromHex("2ecc71"),
	drawing.ColorFromHex("e74c3c"),
	drawing.ColorFromHex("f39c12"),
}

// MetricsRenderer draws one bar per metric on a 0 to 100 scale
type MetricsRenderer struct {
	width  int
	height int
}

// NewMetricsRenderer creates a new renderer
func NewMetricsRenderer() *MetricsRenderer {
	return &MetricsRenderer{width: 640, height: 400}
}

// RenderMetrics returns a PNG titled "Metrics for <name>"
func (r *MetricsRenderer) RenderMetrics(name string, m core.Metrics) ([]byte, error) {
	values := []float64{m.Accuracy, m.Precision, m.Recall, m.F1}
	labels := []string{"Accuracy", "Precision", "Recall", "F1 Score"}

	bars := make([]chart.Value, len(values))
	for i, v := range values {
		bars[i] = chart.Value{
			Label: labels[i],
			Value: v,
			Style: chart.Style{
				Show:        true,
				FillColor:   colors[i],
				StrokeColor: colors[i],
				StrokeWidth: 1,
			},
		}
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("Metrics for %s", name),
		TitleStyle: chart.StyleShow(),
		Width:      r.width,
		Height:     r.height,
		BarWidth:   80,
		BarSpacing: 40,
		Background: chart.Style{
			Padding: chart.Box{
				Top: 40,
			},
		},
		XAxis: chart.StyleShow(),
		YAxis: chart.YAxis{
			Name:      "Percentage",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 100,
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", name, err)
	}
	return buf.Bytes(), nil
}
