package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObservePrediction(model Model, prediction Prediction) {
	m.Called(model, prediction)
}

func (m *MockObserver) ObserveBatch(err error) {
	m.Called(err)
}

func newTestService(t *testing.T, cls Classifiers, observer Observer) *EnsembleService {
	t.Helper()
	logger := zap.NewNop()
	scorer, err := NewEnsembleScorer(cls, logger)
	require.NoError(t, err)
	evaluator, err := NewBatchEvaluator(cls, logger, 2)
	require.NoError(t, err)
	return NewEnsembleService(NewPredictionRouter(cls, scorer, logger), evaluator, observer, logger)
}

func TestEnsembleService_ClassifySingle(t *testing.T) {
	observer := new(MockObserver)
	observer.On("ObservePrediction", ModelPULearning, NotSpam).Once()

	svc := newTestService(t, classifiers(constant(0.9), constant(0.9), constant(0.12), constant(0.9)), observer)

	result, err := svc.ClassifySingle(context.Background(), "lunch?", ModelPULearning)

	require.NoError(t, err)
	assert.Equal(t, NotSpam, result.Prediction)
	assert.Equal(t, 12.0, result.Percentage)
	observer.AssertExpectations(t)
}

func TestEnsembleService_ClassifySingleFailureIsNotObserved(t *testing.T) {
	observer := new(MockObserver)
	svc := newTestService(t, classifiers(constant(0.9), constant(0.9), constant(0.12), constant(0.9)), observer)

	_, err := svc.ClassifySingle(context.Background(), "", ModelEnsemble)

	assert.ErrorIs(t, err, ErrEmptyText)
	observer.AssertNotCalled(t, "ObservePrediction", mock.Anything, mock.Anything)
}

func TestEnsembleService_EvaluateBatch(t *testing.T) {
	observer := new(MockObserver)
	observer.On("ObserveBatch", nil).Once()
	observer.On("ObserveBatch", ErrEmptyBatch).Once()

	svc := newTestService(t, classifiers(constant(0.9), constant(0.9), constant(0.9), constant(0.9)), observer)

	report, err := svc.EvaluateBatch(context.Background(), []LabeledSample{{Text: "prize", Label: 1}})
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.Ensemble.Metrics.Accuracy)

	_, err = svc.EvaluateBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	observer.AssertExpectations(t)
}

func TestEnsembleService_NilObserver(t *testing.T) {
	svc := newTestService(t, classifiers(constant(0.9), constant(0.9), constant(0.9), constant(0.9)), nil)

	result, err := svc.ClassifySingle(context.Background(), "prize", ModelEnsemble)

	require.NoError(t, err)
	assert.Equal(t, Spam, result.Prediction)
}
