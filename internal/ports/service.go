package ports

import (
	"context"
	"io"

	"github.com/mikey/spam-ensemble/internal/core"
)

// EnsembleService is the application service consumed by the presentation adapters
type EnsembleService interface {
	// ClassifySingle classifies one text with the selected model
	ClassifySingle(ctx context.Context, text string, model core.Model) (*core.Classification, error)

	// EvaluateBatch runs a labeled batch through all models and the ensemble
	EvaluateBatch(ctx context.Context, samples []core.LabeledSample) (*core.BatchReport, error)
}

// BatchReader parses an uploaded labeled batch
type BatchReader interface {
	Read(r io.Reader) ([]core.LabeledSample, error)
}

// ChartRenderer draws the metrics of one model as a PNG image
type ChartRenderer interface {
	RenderMetrics(name string, m core.Metrics) ([]byte, error)
}
