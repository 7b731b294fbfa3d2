package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/spam-ensemble/internal/core"
)

func TestPresenter_Classification(t *testing.T) {
	var buf bytes.Buffer
	NewPresenter(&buf).Classification(&core.Classification{
		Model:      core.ModelEnsemble,
		Prediction: core.Spam,
		Percentage: 81.25,
	})

	assert.Equal(t, "Model: Ensemble\nPrediction: SPAM\nSpam Probability: 81.25%\n", buf.String())
}

func TestPresenter_Report(t *testing.T) {
	samples := []core.LabeledSample{{Text: "win a prize", Label: 1}, {Text: "lunch?", Label: 0}}
	eval := func(m core.Model) core.ModelEvaluation {
		return core.ModelEvaluation{
			Model:         m,
			Probabilities: []float64{0.875, 0.25},
			Predictions:   []core.Prediction{core.Spam, core.NotSpam},
			Metrics:       core.Metrics{Accuracy: 100, Precision: 100, Recall: 100, F1: 100},
		}
	}
	report := &core.BatchReport{Samples: samples}
	for _, m := range core.IndividualModels {
		report.Models = append(report.Models, eval(m))
	}
	ensemble := eval(core.ModelEnsemble)
	report.Ensemble = &ensemble

	var buf bytes.Buffer
	NewPresenter(&buf).Report(report)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Evaluated 2 messages\n"))
	assert.Contains(t, out, "F1 Score")
	assert.Contains(t, out, "Reinforcement Learning")
	assert.Contains(t, out, "87.50%")
	assert.Contains(t, out, "NOT SPAM")
	assert.Equal(t, 20, strings.Count(out, "100.00%"))
}

func TestPresenter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPresenter(&buf).JSON(map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
