package core

import (
	"context"
	"fmt"
	"math"
)

// ClassifierClient submits one text to one remote model and returns its spam probability
type ClassifierClient interface {
	// Classify returns the probability in [0,1] that text is spam
	Classify(ctx context.Context, text string) (float64, error)
}

// Observer receives notifications about completed operations.
// It is used for instrumentation and may be nil.
type Observer interface {
	ObservePrediction(model Model, prediction Prediction)
	ObserveBatch(err error)
}

// Classifiers bundles the four configured remote classifiers
type Classifiers struct {
	BiLSTM                ClassifierClient
	ReinforcementLearning ClassifierClient
	PULearning            ClassifierClient
	GANBERT               ClassifierClient
}

// For returns the classifier serving an individual model
func (c Classifiers) For(m Model) (ClassifierClient, error) {
	var client ClassifierClient
	switch m {
	case ModelBiLSTM:
		client = c.BiLSTM
	case ModelReinforcementLearning:
		client = c.ReinforcementLearning
	case ModelPULearning:
		client = c.PULearning
	case ModelGANBERT:
		client = c.GANBERT
	default:
		return nil, fmt.Errorf("%w: no remote classifier for %q", ErrInvalidSelector, m)
	}
	if client == nil {
		return nil, fmt.Errorf("classifier for %s is not configured", m)
	}
	return client, nil
}

// Validate checks that all four classifiers are configured
func (c Classifiers) Validate() error {
	for _, m := range IndividualModels {
		if _, err := c.For(m); err != nil {
			return err
		}
	}
	return nil
}

// callClassifier invokes one classifier and normalizes its failures into a RemoteCallError.
// Values outside [0,1] (including NaN) are rejected rather than propagated.
func callClassifier(ctx context.Context, m Model, client ClassifierClient, text string) (float64, error) {
	p, err := client.Classify(ctx, text)
	if err != nil {
		return 0, &RemoteCallError{Model: m, Err: err}
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, &RemoteCallError{Model: m, Err: fmt.Errorf("%w: got %v", ErrProbabilityOutOfRange, p)}
	}
	return p, nil
}
