package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, cls Classifiers) *PredictionRouter {
	t.Helper()
	scorer, err := NewEnsembleScorer(cls, zap.NewNop())
	require.NoError(t, err)
	return NewPredictionRouter(cls, scorer, zap.NewNop())
}

func TestPredictionRouter_EmptyTextMakesNoCalls(t *testing.T) {
	mocks := []*MockClassifier{new(MockClassifier), new(MockClassifier), new(MockClassifier), new(MockClassifier)}
	router := newTestRouter(t, classifiers(mocks[0], mocks[1], mocks[2], mocks[3]))

	for _, text := range []string{"", "   ", "\n\t"} {
		for _, m := range append(IndividualModels, ModelEnsemble) {
			result, err := router.Classify(context.Background(), text, m)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, ErrEmptyText)
		}
	}

	for _, m := range mocks {
		m.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
	}
}

func TestPredictionRouter_SingleModel(t *testing.T) {
	bilstm := new(MockClassifier)
	bilstm.On("Classify", mock.Anything, "Free prize!!!").Return(0.931234, nil).Once()
	others := new(MockClassifier)

	router := newTestRouter(t, classifiers(bilstm, others, others, others))

	result, err := router.Classify(context.Background(), "Free prize!!!", ModelBiLSTM)

	require.NoError(t, err)
	assert.Equal(t, ModelBiLSTM, result.Model)
	assert.Equal(t, Spam, result.Prediction)
	assert.Equal(t, 0.931234, result.Probability)
	assert.Equal(t, 93.12, result.Percentage)
	bilstm.AssertExpectations(t)
	others.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
}

func TestPredictionRouter_Ensemble(t *testing.T) {
	router := newTestRouter(t, classifiers(constant(0.8), constant(0.2), constant(0.4), constant(0.6)))

	result, err := router.Classify(context.Background(), "hello", ModelEnsemble)

	require.NoError(t, err)
	assert.Equal(t, ModelEnsemble, result.Model)
	assert.Equal(t, Spam, result.Prediction)
	assert.Equal(t, 50.0, result.Percentage)
}

func TestPredictionRouter_InvalidSelector(t *testing.T) {
	router := newTestRouter(t, classifiers(constant(0.8), constant(0.2), constant(0.4), constant(0.6)))

	_, err := router.Classify(context.Background(), "hello", Model(0))

	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestPredictionRouter_RemoteFailure(t *testing.T) {
	gan := new(MockClassifier)
	gan.On("Classify", mock.Anything, "hello").Return(0.0, assert.AnError)

	router := newTestRouter(t, classifiers(constant(0.8), constant(0.2), constant(0.4), gan))

	_, err := router.Classify(context.Background(), "hello", ModelGANBERT)

	assert.ErrorIs(t, err, ErrRemoteCall)
	assert.ErrorIs(t, err, assert.AnError)
}
