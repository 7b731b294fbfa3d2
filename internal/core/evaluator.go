package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of in-flight remote calls per model during batch evaluation
const DefaultConcurrency = 4

// BatchEvaluator runs labeled batches through the remote classifiers and computes metrics
type BatchEvaluator struct {
	classifiers Classifiers
	logger      *zap.Logger
	concurrency int
}

// NewBatchEvaluator creates a new batch evaluator.
// A concurrency of 1 processes samples strictly one after another.
func NewBatchEvaluator(classifiers Classifiers, logger *zap.Logger, concurrency int) (*BatchEvaluator, error) {
	if err := classifiers.Validate(); err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &BatchEvaluator{
		classifiers: classifiers,
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

// Evaluate runs every sample through all four models and the ensemble
func (e *BatchEvaluator) Evaluate(ctx context.Context, samples []LabeledSample) (*BatchReport, error) {
	return e.EvaluateModels(ctx, samples, ModelEnsemble)
}

// EvaluateModels evaluates the selected models. Selecting ModelEnsemble, or all four individual
// models, evaluates all four and adds the ensemble entry. No models means all of them.
func (e *BatchEvaluator) EvaluateModels(ctx context.Context, samples []LabeledSample, models ...Model) (*BatchReport, error) {
	selected, withEnsemble, err := resolveSelection(models)
	if err != nil {
		return nil, err
	}

	usable, err := PrepareSamples(samples)
	if err != nil {
		return nil, err
	}

	labels := make([]int, len(usable))
	for i, s := range usable {
		labels[i] = s.Label
	}

	report := &BatchReport{Samples: usable}
	columns := make([][]float64, 0, len(selected))

	for _, m := range selected {
		probs, err := e.classifyAll(ctx, m, usable)
		if err != nil {
			return nil, err
		}
		predictions := Predict(probs)
		metrics := ComputeMetrics(labels, predictions)

		e.logger.Info("Model evaluated",
			zap.String("model", m.String()),
			zap.Int("samples", len(usable)),
			zap.Float64("accuracy", metrics.Accuracy),
			zap.Float64("f1_score", metrics.F1))

		report.Models = append(report.Models, ModelEvaluation{
			Model:         m,
			Probabilities: probs,
			Predictions:   predictions,
			Metrics:       metrics,
		})
		columns = append(columns, probs)
	}

	if withEnsemble {
		probs, err := MeanColumns(columns)
		if err != nil {
			return nil, err
		}
		predictions := Predict(probs)
		metrics := ComputeMetrics(labels, predictions)

		e.logger.Info("Ensemble evaluated",
			zap.Int("samples", len(usable)),
			zap.Float64("accuracy", metrics.Accuracy),
			zap.Float64("f1_score", metrics.F1))

		report.Ensemble = &ModelEvaluation{
			Model:         ModelEnsemble,
			Probabilities: probs,
			Predictions:   predictions,
			Metrics:       metrics,
		}
	}

	return report, nil
}

// classifyAll obtains one probability per sample, keeping results aligned with the input order
func (e *BatchEvaluator) classifyAll(ctx context.Context, m Model, samples []LabeledSample) ([]float64, error) {
	client, err := e.classifiers.For(m)
	if err != nil {
		return nil, err
	}

	probs := make([]float64, len(samples))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, s := range samples {
		i, s := i, s
		g.Go(func() error {
			p, err := callClassifier(gctx, m, client, s.Text)
			if err != nil {
				return err
			}
			probs[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Error("Batch evaluation aborted", zap.String("model", m.String()), zap.Error(err))
		return nil, err
	}
	return probs, nil
}

// PrepareSamples drops samples with missing text and validates labels.
// It fails with ErrEmptyBatch when nothing usable remains.
func PrepareSamples(samples []LabeledSample) ([]LabeledSample, error) {
	usable := make([]LabeledSample, 0, len(samples))
	for i, s := range samples {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		if s.Label != 0 && s.Label != 1 {
			return nil, fmt.Errorf("%w: row %d has label %d, expected 0 or 1", ErrInvalidBatchFormat, i+1, s.Label)
		}
		usable = append(usable, s)
	}
	if len(usable) == 0 {
		return nil, ErrEmptyBatch
	}
	return usable, nil
}

func resolveSelection(models []Model) ([]Model, bool, error) {
	if len(models) == 0 {
		return IndividualModels, true, nil
	}

	want := make(map[Model]bool, len(models))
	for _, m := range models {
		if !m.Valid() {
			return nil, false, fmt.Errorf("%w: %d", ErrInvalidSelector, int(m))
		}
		if m == ModelEnsemble {
			return IndividualModels, true, nil
		}
		want[m] = true
	}

	selected := make([]Model, 0, len(want))
	for _, m := range IndividualModels {
		if want[m] {
			selected = append(selected, m)
		}
	}
	return selected, len(selected) == len(IndividualModels), nil
}
