package core

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"
)

var mockAnyContext = mock.Anything

// classifierFunc adapts a function to the ClassifierClient interface
type classifierFunc func(ctx context.Context, text string) (float64, error)

func (f classifierFunc) Classify(ctx context.Context, text string) (float64, error) {
	return f(ctx, text)
}

// constant always returns p
func constant(p float64) ClassifierClient {
	return classifierFunc(func(context.Context, string) (float64, error) { return p, nil })
}

// lookup returns the probability registered for each text
func lookup(probs map[string]float64) ClassifierClient {
	return classifierFunc(func(_ context.Context, text string) (float64, error) {
		p, ok := probs[text]
		if !ok {
			return 0, errors.New("unexpected text " + text)
		}
		return p, nil
	})
}

func failing(err error) ClassifierClient {
	return classifierFunc(func(context.Context, string) (float64, error) { return 0, err })
}

// MockClassifier is a mock implementation of ClassifierClient
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text string) (float64, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(float64), args.Error(1)
}

func classifiers(bilstm, rl, pu, gan ClassifierClient) Classifiers {
	return Classifiers{
		BiLSTM:                bilstm,
		ReinforcementLearning: rl,
		PULearning:            pu,
		GANBERT:               gan,
	}
}
