package gradio

import (
	"fmt"

	"github.com/mikey/spam-ensemble/internal/config"
	"go.uber.org/zap"
)

// Factory creates Gradio classifiers from the model slot configuration
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new Gradio factory
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates the classifier configured for slot
func (f *Factory) CreateClassifier(slot string) (*Classifier, error) {
	modelCfg, err := f.cfg.GetModel(slot)
	if err != nil {
		return nil, err
	}
	if modelCfg.URL == "" {
		return nil, fmt.Errorf("models.%s.url is required", slot)
	}
	if len(modelCfg.Fields) == 0 {
		return nil, fmt.Errorf("models.%s.fields must name at least one output field", slot)
	}

	remote, err := f.cfg.GetRemote()
	if err != nil {
		return nil, err
	}

	client := NewClient(
		modelCfg.URL,
		modelCfg.APIName,
		modelCfg.HFToken,
		remote.Timeout,
		f.logger.With(zap.String("slot", slot)),
	)
	return NewClassifier(client, modelCfg.Fields), nil
}
