package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// PredictionRouter dispatches a single text to the selected classifier or to the ensemble
type PredictionRouter struct {
	classifiers Classifiers
	ensemble    *EnsembleScorer
	logger      *zap.Logger
}

// NewPredictionRouter creates a new prediction router
func NewPredictionRouter(classifiers Classifiers, ensemble *EnsembleScorer, logger *zap.Logger) *PredictionRouter {
	return &PredictionRouter{
		classifiers: classifiers,
		ensemble:    ensemble,
		logger:      logger,
	}
}

// Classify validates the input, obtains a probability for text from the selected model and
// thresholds it. Empty text is rejected before any remote call is made.
func (r *PredictionRouter) Classify(ctx context.Context, text string, model Model) (*Classification, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if !model.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSelector, int(model))
	}

	var probability float64
	if model == ModelEnsemble {
		p, err := r.ensemble.Score(ctx, text)
		if err != nil {
			return nil, err
		}
		probability = p
	} else {
		client, err := r.classifiers.For(model)
		if err != nil {
			return nil, err
		}
		p, err := callClassifier(ctx, model, client, text)
		if err != nil {
			return nil, err
		}
		probability = p
	}

	return &Classification{
		Model:       model,
		Prediction:  PredictionFor(probability),
		Probability: probability,
		Percentage:  Percentage(probability),
	}, nil
}
