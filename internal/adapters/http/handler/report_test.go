package handler

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBulkResponse(t *testing.T) {
	t.Run("one section per model plus the ensemble", func(t *testing.T) {
		charts := &stubCharts{}
		resp, err := BuildBulkResponse(sampleReport(), charts)
		require.NoError(t, err)

		require.Contains(t, resp.Models, "Reinforcement Learning")
		section := resp.Models["Reinforcement Learning"]
		assert.Equal(t, "Reinforcement Learning model for spam detection.", section.Description)
		assert.Equal(t, ModelRow{SMS: "win a prize", Probability: 90}, section.Table[0])
		assert.Equal(t, ModelRow{SMS: "see you at lunch", Probability: 10}, section.Table[1])
		assert.Equal(t, 100.0, section.Metrics.F1)

		assert.Equal(t, []EnsembleRow{
			{SMS: "win a prize", Ensemble: "SPAM"},
			{SMS: "see you at lunch", Ensemble: "NOT SPAM"},
		}, resp.Ensemble.Table)
		assert.Equal(t, []string{"BiLSTM", "Reinforcement Learning", "PU Learning", "GAN BERT", EnsembleChartName}, charts.names)
	})

	t.Run("charts are omitted without a renderer", func(t *testing.T) {
		resp, err := BuildBulkResponse(sampleReport(), nil)
		require.NoError(t, err)

		raw, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), `"chart"`)
		assert.Contains(t, string(raw), `"f1_score":100`)
	})

	t.Run("render failure", func(t *testing.T) {
		_, err := BuildBulkResponse(sampleReport(), &stubCharts{err: errors.New("no font")})
		assert.ErrorIs(t, err, ErrChartRender)
	})
}
