package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMetrics(t *testing.T) {
	t.Run("mixed predictions", func(t *testing.T) {
		labels := []int{1, 1, 1, 0}
		predictions := []Prediction{Spam, NotSpam, Spam, NotSpam}

		m := ComputeMetrics(labels, predictions)

		assert.InDelta(t, 75.0, m.Accuracy, 0.01)
		assert.InDelta(t, 100.0, m.Precision, 0.01)
		assert.InDelta(t, 66.67, m.Recall, 0.01)
		assert.InDelta(t, 80.0, m.F1, 0.01)
	})

	t.Run("no positives anywhere yields zero instead of NaN", func(t *testing.T) {
		labels := []int{0, 0, 0}
		predictions := []Prediction{NotSpam, NotSpam, NotSpam}

		m := ComputeMetrics(labels, predictions)

		assert.Equal(t, 100.0, m.Accuracy)
		assert.Equal(t, 0.0, m.Precision)
		assert.Equal(t, 0.0, m.Recall)
		assert.Equal(t, 0.0, m.F1)
	})

	t.Run("no positive predictions", func(t *testing.T) {
		m := ComputeMetrics([]int{1, 0}, []Prediction{NotSpam, NotSpam})

		assert.Equal(t, 50.0, m.Accuracy)
		assert.Equal(t, 0.0, m.Precision)
		assert.Equal(t, 0.0, m.Recall)
		assert.Equal(t, 0.0, m.F1)
	})

	t.Run("all wrong", func(t *testing.T) {
		m := ComputeMetrics([]int{1, 0}, []Prediction{NotSpam, Spam})

		assert.Equal(t, 0.0, m.Accuracy)
		assert.Equal(t, 0.0, m.Precision)
		assert.Equal(t, 0.0, m.Recall)
		assert.Equal(t, 0.0, m.F1)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, Metrics{}, ComputeMetrics(nil, nil))
	})
}

func TestPredict(t *testing.T) {
	got := Predict([]float64{0.9, 0.5, 0.49, 0})
	assert.Equal(t, []Prediction{Spam, Spam, NotSpam, NotSpam}, got)
}
