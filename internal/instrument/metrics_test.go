package instrument

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/spam-ensemble/internal/core"
)

type fixed struct {
	p   float64
	err error
}

func (f fixed) Classify(context.Context, string) (float64, error) {
	return f.p, f.err
}

func TestWrap(t *testing.T) {
	m := NewMetrics()

	ok := m.Wrap(core.ModelBiLSTM, fixed{p: 0.7})
	p, err := ok.Classify(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, 0.7, p)

	broken := m.Wrap(core.ModelGANBERT, fixed{err: errors.New("boom")})
	_, err = broken.Classify(context.Background(), "hi")
	assert.Error(t, err)

	slow := m.Wrap(core.ModelGANBERT, fixed{err: fmt.Errorf("call: %w", context.DeadlineExceeded)})
	_, _ = slow.Classify(context.Background(), "hi")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("bilstm", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("gan", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("gan", OutcomeTimeout)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestObserver(t *testing.T) {
	m := NewMetrics()
	var observer core.Observer = m

	observer.ObservePrediction(core.ModelEnsemble, core.Spam)
	observer.ObservePrediction(core.ModelEnsemble, core.Spam)
	observer.ObservePrediction(core.ModelPULearning, core.NotSpam)
	observer.ObserveBatch(nil)
	observer.ObserveBatch(core.ErrEmptyBatch)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.predictions.WithLabelValues("ensemble", "SPAM")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues("pu", "NOT SPAM")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.batches.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.batches.WithLabelValues(OutcomeError)))
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveBatch(nil)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `spam_ensemble_batch_evaluations_total{outcome="success"} 1`)
}
