package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// EnsembleService is the entry point used by the presentation adapters
type EnsembleService struct {
	router    *PredictionRouter
	evaluator *BatchEvaluator
	observer  Observer
	logger    *zap.Logger
}

// NewEnsembleService creates a new ensemble service. observer may be nil.
func NewEnsembleService(
	router *PredictionRouter,
	evaluator *BatchEvaluator,
	observer Observer,
	logger *zap.Logger,
) *EnsembleService {
	return &EnsembleService{
		router:    router,
		evaluator: evaluator,
		observer:  observer,
		logger:    logger,
	}
}

// ClassifySingle classifies one text with the selected model
func (s *EnsembleService) ClassifySingle(ctx context.Context, text string, model Model) (*Classification, error) {
	start := time.Now()
	result, err := s.router.Classify(ctx, text, model)
	if err != nil {
		s.logger.Warn("Classification failed",
			zap.String("model", model.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Classified text",
		zap.String("model", model.String()),
		zap.String("prediction", result.Prediction.String()),
		zap.Float64("probability", result.Percentage),
		zap.Duration("duration", time.Since(start)))

	if s.observer != nil {
		s.observer.ObservePrediction(model, result.Prediction)
	}
	return result, nil
}

// EvaluateBatch evaluates a labeled batch with all four models and the ensemble
func (s *EnsembleService) EvaluateBatch(ctx context.Context, samples []LabeledSample) (*BatchReport, error) {
	start := time.Now()
	report, err := s.evaluator.Evaluate(ctx, samples)
	if s.observer != nil {
		s.observer.ObserveBatch(err)
	}
	if err != nil {
		s.logger.Warn("Batch evaluation failed",
			zap.Int("rows", len(samples)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Evaluated batch",
		zap.Int("rows", len(samples)),
		zap.Int("evaluated", len(report.Samples)),
		zap.Duration("duration", time.Since(start)))

	return report, nil
}
