package core

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnsembleScorer_Score(t *testing.T) {
	logger := zap.NewNop()

	t.Run("unweighted mean hits the inclusive boundary", func(t *testing.T) {
		scorer, err := NewEnsembleScorer(classifiers(constant(0.8), constant(0.2), constant(0.4), constant(0.6)), logger)
		require.NoError(t, err)

		p, err := scorer.Score(context.Background(), "hello")

		require.NoError(t, err)
		assert.Equal(t, 0.5, p)
		assert.Equal(t, Spam, PredictionFor(p))
	})

	t.Run("one failing classifier fails the whole score", func(t *testing.T) {
		boom := errors.New("connection refused")
		scorer, err := NewEnsembleScorer(classifiers(constant(0.8), failing(boom), constant(0.4), constant(0.6)), logger)
		require.NoError(t, err)

		_, err = scorer.Score(context.Background(), "hello")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRemoteCall)
		assert.ErrorIs(t, err, boom)

		var remoteErr *RemoteCallError
		require.True(t, errors.As(err, &remoteErr))
		assert.Equal(t, ModelReinforcementLearning, remoteErr.Model)
	})

	t.Run("out of range probability is rejected", func(t *testing.T) {
		scorer, err := NewEnsembleScorer(classifiers(constant(0.8), constant(0.2), constant(1.7), constant(0.6)), logger)
		require.NoError(t, err)

		_, err = scorer.Score(context.Background(), "hello")

		assert.ErrorIs(t, err, ErrRemoteCall)
		assert.ErrorIs(t, err, ErrProbabilityOutOfRange)
	})

	t.Run("NaN probability is rejected", func(t *testing.T) {
		scorer, err := NewEnsembleScorer(classifiers(constant(math.NaN()), constant(0.2), constant(0.4), constant(0.6)), logger)
		require.NoError(t, err)

		_, err = scorer.Score(context.Background(), "hello")

		assert.ErrorIs(t, err, ErrProbabilityOutOfRange)
	})

	t.Run("every classifier receives the same text", func(t *testing.T) {
		mocks := []*MockClassifier{new(MockClassifier), new(MockClassifier), new(MockClassifier), new(MockClassifier)}
		for i, m := range mocks {
			m.On("Classify", mockAnyContext, "win a prize").Return(0.1*float64(i+1), nil).Once()
		}
		scorer, err := NewEnsembleScorer(classifiers(mocks[0], mocks[1], mocks[2], mocks[3]), logger)
		require.NoError(t, err)

		p, err := scorer.Score(context.Background(), "win a prize")

		require.NoError(t, err)
		assert.InDelta(t, 0.25, p, 1e-9)
		for _, m := range mocks {
			m.AssertExpectations(t)
		}
	})

	t.Run("missing classifier is a construction error", func(t *testing.T) {
		_, err := NewEnsembleScorer(classifiers(constant(0.1), nil, constant(0.1), constant(0.1)), logger)
		assert.Error(t, err)
	})
}

func TestMeanColumns(t *testing.T) {
	got, err := MeanColumns([][]float64{
		{0.9, 0.1},
		{0.8, 0.2},
		{0.7, 0.3},
		{0.6, 0.4},
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.75, got[0], 1e-9)
	assert.InDelta(t, 0.25, got[1], 1e-9)

	_, err = MeanColumns([][]float64{{0.1, 0.2}, {0.3}})
	assert.Error(t, err)
}
