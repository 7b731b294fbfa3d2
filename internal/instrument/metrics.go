package instrument

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mikey/spam-ensemble/internal/core"
)

const namespace = "spam_ensemble"

// Call outcomes
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// Metrics owns a private registry with the classifier and batch collectors.
// It implements core.Observer.
type Metrics struct {
	registry    *prometheus.Registry
	calls       *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	predictions *prometheus.CounterVec
	batches     *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_calls_total",
			Help:      "Remote classifier calls by model and outcome.",
		}, []string{"model", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classifier_call_duration_seconds",
			Help:      "Latency of remote classifier calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"model"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Single-text predictions by selected model and result.",
		}, []string{"model", "prediction"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_evaluations_total",
			Help:      "Batch evaluations by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.calls,
		m.duration,
		m.predictions,
		m.batches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObservePrediction counts one single-text prediction
func (m *Metrics) ObservePrediction(model core.Model, prediction core.Prediction) {
	m.predictions.WithLabelValues(model.Key(), prediction.String()).Inc()
}

// ObserveBatch counts one batch evaluation
func (m *Metrics) ObserveBatch(err error) {
	m.batches.WithLabelValues(outcome(err)).Inc()
}

// Wrap decorates a classifier so each call is counted and timed under model
func (m *Metrics) Wrap(model core.Model, next core.ClassifierClient) core.ClassifierClient {
	return &Classifier{model: model.Key(), next: next, metrics: m}
}

// Classifier counts and times the calls of a wrapped classifier
type Classifier struct {
	model   string
	next    core.ClassifierClient
	metrics *Metrics
}

func (c *Classifier) Classify(ctx context.Context, text string) (float64, error) {
	start := time.Now()
	p, err := c.next.Classify(ctx, text)
	c.metrics.duration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())
	c.metrics.calls.WithLabelValues(c.model, outcome(err)).Inc()
	return p, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeError
	}
}
