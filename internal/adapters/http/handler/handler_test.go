package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikey/spam-ensemble/internal/core"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockService is a mock implementation of ports.EnsembleService
type MockService struct {
	mock.Mock
}

func (m *MockService) ClassifySingle(ctx context.Context, text string, model core.Model) (*core.Classification, error) {
	args := m.Called(ctx, text, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*core.Classification), args.Error(1)
}

func (m *MockService) EvaluateBatch(ctx context.Context, samples []core.LabeledSample) (*core.BatchReport, error) {
	args := m.Called(ctx, samples)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*core.BatchReport), args.Error(1)
}

// MockReader is a mock implementation of ports.BatchReader
type MockReader struct {
	mock.Mock
}

func (m *MockReader) Read(r io.Reader) ([]core.LabeledSample, error) {
	args := m.Called(r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]core.LabeledSample), args.Error(1)
}

// stubCharts returns a fixed payload for every chart and records the names asked for
type stubCharts struct {
	names []string
	err   error
}

func (s *stubCharts) RenderMetrics(name string, _ core.Metrics) ([]byte, error) {
	s.names = append(s.names, name)
	if s.err != nil {
		return nil, s.err
	}
	return []byte("png"), nil
}

func sampleReport() *core.BatchReport {
	samples := []core.LabeledSample{
		{Text: "win a prize", Label: 1},
		{Text: "see you at lunch", Label: 0},
	}
	metrics := core.Metrics{Accuracy: 100, Precision: 100, Recall: 100, F1: 100}

	report := &core.BatchReport{Samples: samples}
	for _, m := range core.IndividualModels {
		report.Models = append(report.Models, core.ModelEvaluation{
			Model:         m,
			Probabilities: []float64{0.9, 0.1},
			Predictions:   []core.Prediction{core.Spam, core.NotSpam},
			Metrics:       metrics,
		})
	}
	report.Ensemble = &core.ModelEvaluation{
		Model:         core.ModelEnsemble,
		Probabilities: []float64{0.9, 0.1},
		Predictions:   []core.Prediction{core.Spam, core.NotSpam},
		Metrics:       metrics,
	}
	return report
}

// multipartRequest builds a request uploading content under field
func multipartRequest(t *testing.T, target, field, content string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		part, err := writer.CreateFormFile(field, "batch.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
