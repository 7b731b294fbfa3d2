package core

import (
	"strconv"
)

// Threshold is the spam probability at or above which a message is predicted to be spam
const Threshold = 0.5

// Model identifies one of the remote classifiers or the ensemble built on top of them
type Model int

const (
	ModelBiLSTM Model = iota + 1
	ModelReinforcementLearning
	ModelPULearning
	ModelGANBERT
	ModelEnsemble
)

// IndividualModels lists the four remote classifiers in their canonical order.
// Ensemble probabilities are averaged in this order.
var IndividualModels = []Model{
	ModelBiLSTM,
	ModelReinforcementLearning,
	ModelPULearning,
	ModelGANBERT,
}

// String returns the display name of the model
func (m Model) String() string {
	switch m {
	case ModelBiLSTM:
		return "BiLSTM"
	case ModelReinforcementLearning:
		return "Reinforcement Learning"
	case ModelPULearning:
		return "PU Learning"
	case ModelGANBERT:
		return "GAN BERT"
	case ModelEnsemble:
		return "Ensemble"
	default:
		return "unknown"
	}
}

// Key returns the short identifier of the model used for configuration slots and metric labels
func (m Model) Key() string {
	switch m {
	case ModelBiLSTM:
		return "bilstm"
	case ModelReinforcementLearning:
		return "rl"
	case ModelPULearning:
		return "pu"
	case ModelGANBERT:
		return "gan"
	case ModelEnsemble:
		return "ensemble"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the known models
func (m Model) Valid() bool {
	return m >= ModelBiLSTM && m <= ModelEnsemble
}

// Prediction is the binary outcome derived from a spam probability
type Prediction int

const (
	NotSpam Prediction = 0
	Spam    Prediction = 1
)

// String returns the label shown to users
func (p Prediction) String() string {
	if p == Spam {
		return "SPAM"
	}
	return "NOT SPAM"
}

// Label returns the numeric label (1 for spam, 0 otherwise)
func (p Prediction) Label() int {
	return int(p)
}

// PredictionFor thresholds a probability. The boundary is inclusive: 0.5 is spam.
func PredictionFor(probability float64) Prediction {
	if probability >= Threshold {
		return Spam
	}
	return NotSpam
}

// Percentage converts a probability to a percentage rounded to two decimal places.
// Rounding works on the exact value of probability*100 with ties to even, so 0.125 becomes 0.12.
func Percentage(probability float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(probability*100, 'f', 2, 64), 64)
	return v
}

// LabeledSample is an input text paired with its ground-truth label (0 = not spam, 1 = spam)
type LabeledSample struct {
	Text  string
	Label int
}

// Metrics holds evaluation metrics, each a percentage in [0,100]
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
}

// Classification is the result of classifying a single text
type Classification struct {
	Model       Model
	Prediction  Prediction
	Probability float64
	Percentage  float64
}

// ModelEvaluation holds the per-sample outputs and metrics of one model over a batch
type ModelEvaluation struct {
	Model         Model
	Probabilities []float64
	Predictions   []Prediction
	Metrics       Metrics
}

// BatchReport is the outcome of evaluating a labeled batch.
// Probabilities and predictions are index-aligned with Samples.
type BatchReport struct {
	Samples  []LabeledSample
	Models   []ModelEvaluation
	Ensemble *ModelEvaluation
}

// Model returns the evaluation for the given model, if present
func (r *BatchReport) Model(m Model) (*ModelEvaluation, bool) {
	if m == ModelEnsemble {
		return r.Ensemble, r.Ensemble != nil
	}
	for i := range r.Models {
		if r.Models[i].Model == m {
			return &r.Models[i], true
		}
	}
	return nil, false
}
