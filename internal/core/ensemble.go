package core

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EnsembleScorer combines the four remote classifiers by soft voting
type EnsembleScorer struct {
	classifiers Classifiers
	logger      *zap.Logger
}

// NewEnsembleScorer creates a new ensemble scorer
func NewEnsembleScorer(classifiers Classifiers, logger *zap.Logger) (*EnsembleScorer, error) {
	if err := classifiers.Validate(); err != nil {
		return nil, err
	}
	return &EnsembleScorer{
		classifiers: classifiers,
		logger:      logger,
	}, nil
}

// Score returns the unweighted mean of the four model probabilities for text.
// The calls run concurrently; if any of them fails the whole score fails and the
// remaining calls are cancelled.
func (s *EnsembleScorer) Score(ctx context.Context, text string) (float64, error) {
	probs := make([]float64, len(IndividualModels))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range IndividualModels {
		i, m := i, m
		client, err := s.classifiers.For(m)
		if err != nil {
			return 0, err
		}
		g.Go(func() error {
			p, err := callClassifier(gctx, m, client, text)
			if err != nil {
				return err
			}
			probs[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Debug("Ensemble scoring aborted", zap.Error(err))
		return 0, err
	}

	mean, err := Mean(probs)
	if err != nil {
		return 0, err
	}

	s.logger.Debug("Ensemble scored",
		zap.Float64s("probabilities", probs),
		zap.Float64("ensemble", mean))

	return mean, nil
}

// Mean is the soft-voting combination rule: the arithmetic mean of the given probabilities
func Mean(probs []float64) (float64, error) {
	mean, err := stats.Mean(probs)
	if err != nil {
		return 0, fmt.Errorf("failed to average probabilities: %w", err)
	}
	return mean, nil
}

// MeanColumns averages index-aligned probability sequences elementwise
func MeanColumns(columns [][]float64) ([]float64, error) {
	if len(columns) == 0 {
		return nil, nil
	}
	n := len(columns[0])
	out := make([]float64, n)
	row := make([]float64, len(columns))
	for i := 0; i < n; i++ {
		for j, col := range columns {
			if len(col) != n {
				return nil, fmt.Errorf("probability columns have different lengths: %d and %d", n, len(col))
			}
			row[j] = col[i]
		}
		mean, err := Mean(row)
		if err != nil {
			return nil, err
		}
		out[i] = mean
	}
	return out, nil
}
