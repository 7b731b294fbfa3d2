package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/spam-ensemble/internal/adapters/batchcsv"
	"github.com/mikey/spam-ensemble/internal/adapters/chart"
	"github.com/mikey/spam-ensemble/internal/config"
	"github.com/mikey/spam-ensemble/internal/core"
	"github.com/mikey/spam-ensemble/internal/factory"
	"github.com/mikey/spam-ensemble/internal/instrument"
	"github.com/mikey/spam-ensemble/internal/logging"
	"github.com/mikey/spam-ensemble/internal/ports"
	"github.com/mikey/spam-ensemble/internal/utils"
)

// BuildContainer creates and configures the dependency injection container of the server
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register metrics, also the service observer
	if err := container.Provide(instrument.NewMetrics); err != nil {
		return nil, err
	}
	if err := container.Provide(func(m *instrument.Metrics) core.Observer {
		return m
	}); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	// Register presentation helpers and front ends
	if err := container.Provide(func(logger *zap.Logger) ports.BatchReader {
		return batchcsv.NewReader(logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func() ports.ChartRenderer {
		return chart.NewMetricsRenderer()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FrontendFactory) ([]ports.Frontend, error) {
		return f.CreateFrontends()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideCore registers the classifiers and the ensemble service.
// It expects *config.Config, *zap.Logger, *instrument.Metrics and core.Observer to be provided.
func provideCore(container *dig.Container) error {
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return err
	}

	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifiers, error) {
		return f.CreateClassifiers(context.Background())
	}); err != nil {
		return err
	}
	if err := container.Provide(core.NewEnsembleScorer); err != nil {
		return err
	}
	if err := container.Provide(func(cls core.Classifiers, cfg *config.Config, logger *zap.Logger) (*core.BatchEvaluator, error) {
		return core.NewBatchEvaluator(cls, logger, cfg.GetEvaluation().Concurrency)
	}); err != nil {
		return err
	}
	if err := container.Provide(core.NewPredictionRouter); err != nil {
		return err
	}
	if err := container.Provide(core.NewEnsembleService); err != nil {
		return err
	}
	if err := container.Provide(func(s *core.EnsembleService) ports.EnsembleService {
		return s
	}); err != nil {
		return err
	}

	return nil
}
