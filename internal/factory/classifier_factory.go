package factory

import (
	"context"
	"fmt"
	"io"

	"github.com/mikey/spam-ensemble/internal/adapters/bedrock"
	"github.com/mikey/spam-ensemble/internal/adapters/gemini"
	"github.com/mikey/spam-ensemble/internal/adapters/gradio"
	"github.com/mikey/spam-ensemble/internal/adapters/openai"
	"github.com/mikey/spam-ensemble/internal/config"
	"github.com/mikey/spam-ensemble/internal/core"
	"github.com/mikey/spam-ensemble/internal/instrument"
	"github.com/mikey/spam-ensemble/internal/utils"
	"go.uber.org/zap"
)

// Backends a model slot can be served by
const (
	BackendGradio  = "gradio"
	BackendOpenAI  = "openai"
	BackendBedrock = "bedrock"
	BackendGemini  = "gemini"
)

// ClassifierFactory builds the four remote classifiers from the model slot configuration
type ClassifierFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	metrics       *instrument.Metrics
	closers       []io.Closer
}

// NewClassifierFactory creates a new classifier factory. metrics may be nil.
func NewClassifierFactory(
	cfg *config.Config,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	metrics *instrument.Metrics,
) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
		metrics:       metrics,
	}
}

// CreateClassifiers creates one classifier per model slot
func (f *ClassifierFactory) CreateClassifiers(ctx context.Context) (core.Classifiers, error) {
	var cls core.Classifiers
	for _, model := range core.IndividualModels {
		client, err := f.CreateClassifier(ctx, model)
		if err != nil {
			return core.Classifiers{}, err
		}
		switch model {
		case core.ModelBiLSTM:
			cls.BiLSTM = client
		case core.ModelReinforcementLearning:
			cls.ReinforcementLearning = client
		case core.ModelPULearning:
			cls.PULearning = client
		case core.ModelGANBERT:
			cls.GANBERT = client
		}
	}
	return cls, cls.Validate()
}

// CreateClassifier creates the classifier serving one individual model
func (f *ClassifierFactory) CreateClassifier(ctx context.Context, model core.Model) (core.ClassifierClient, error) {
	slot := model.Key()
	modelCfg, err := f.cfg.GetModel(slot)
	if err != nil {
		return nil, err
	}

	var client core.ClassifierClient
	switch modelCfg.Backend {
	case BackendGradio, "":
		client, err = gradio.NewFactory(f.cfg, f.logger).CreateClassifier(slot)
	case BackendOpenAI:
		client, err = openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	case BackendBedrock:
		client, err = bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier(ctx)
	case BackendGemini:
		var gc *gemini.GeminiClient
		gc, err = gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier(ctx)
		if err == nil {
			f.closers = append(f.closers, gc)
			client = gc
		}
	default:
		return nil, fmt.Errorf("unsupported backend %q for model %s", modelCfg.Backend, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s classifier: %w", slot, err)
	}

	f.logger.Info("Created classifier",
		zap.String("model", model.String()),
		zap.String("backend", backendName(modelCfg.Backend)))

	if f.metrics != nil {
		client = f.metrics.Wrap(model, client)
	}
	return client, nil
}

// Backends maps each model slot to its configured backend
func (f *ClassifierFactory) Backends() map[string]string {
	backends := make(map[string]string, len(config.Slots))
	for _, slot := range config.Slots {
		if modelCfg, err := f.cfg.GetModel(slot); err == nil {
			backends[slot] = backendName(modelCfg.Backend)
		}
	}
	return backends
}

// Close releases clients holding connections
func (f *ClassifierFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}

func backendName(b string) string {
	if b == "" {
		return BackendGradio
	}
	return b
}
