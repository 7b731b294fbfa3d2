package handler

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mikey/spam-ensemble/internal/core"
	"github.com/mikey/spam-ensemble/internal/ports"
)

// EnsembleChartName is the chart title used for the ensemble entry
const EnsembleChartName = "Ensemble Model"

// ErrChartRender is returned when a metrics chart cannot be drawn
var ErrChartRender = errors.New("failed to render chart")

// ModelRow is one sample of a model table, probability in percent
type ModelRow struct {
	SMS         string  `json:"sms"`
	Probability float64 `json:"probability"`
}

// ModelSection is the bulk result of one individual model
type ModelSection struct {
	Description string       `json:"description"`
	Table       []ModelRow   `json:"table"`
	Metrics     core.Metrics `json:"metrics"`
	Chart       string       `json:"chart,omitempty"`
}

// EnsembleRow is one sample of the ensemble table
type EnsembleRow struct {
	SMS      string `json:"sms"`
	Ensemble string `json:"ensemble"`
}

// EnsembleSection is the bulk result of the ensemble
type EnsembleSection struct {
	Table   []EnsembleRow `json:"table"`
	Metrics core.Metrics  `json:"metrics"`
	Chart   string        `json:"chart,omitempty"`
}

// BulkResponse is the body returned by the bulk classification endpoint
type BulkResponse struct {
	Models   map[string]ModelSection `json:"models"`
	Ensemble EnsembleSection         `json:"ensemble"`
}

// BuildBulkResponse converts a batch report into the API shape.
// Charts are embedded as base64 PNG when charts is not nil.
func BuildBulkResponse(report *core.BatchReport, charts ports.ChartRenderer) (*BulkResponse, error) {
	resp := &BulkResponse{
		Models: make(map[string]ModelSection, len(report.Models)),
	}

	for _, eval := range report.Models {
		name := eval.Model.String()
		section := ModelSection{
			Description: fmt.Sprintf("%s model for spam detection.", name),
			Table:       make([]ModelRow, len(report.Samples)),
			Metrics:     eval.Metrics,
		}
		for i, s := range report.Samples {
			section.Table[i] = ModelRow{SMS: s.Text, Probability: core.Percentage(eval.Probabilities[i])}
		}
		chart, err := encodeChart(charts, name, eval.Metrics)
		if err != nil {
			return nil, err
		}
		section.Chart = chart
		resp.Models[name] = section
	}

	if report.Ensemble != nil {
		resp.Ensemble.Table = make([]EnsembleRow, len(report.Samples))
		for i, s := range report.Samples {
			resp.Ensemble.Table[i] = EnsembleRow{SMS: s.Text, Ensemble: report.Ensemble.Predictions[i].String()}
		}
		resp.Ensemble.Metrics = report.Ensemble.Metrics
		chart, err := encodeChart(charts, EnsembleChartName, report.Ensemble.Metrics)
		if err != nil {
			return nil, err
		}
		resp.Ensemble.Chart = chart
	}

	return resp, nil
}

func encodeChart(charts ports.ChartRenderer, name string, m core.Metrics) (string, error) {
	if charts == nil {
		return "", nil
	}
	png, err := charts.RenderMetrics(name, m)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChartRender, err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
