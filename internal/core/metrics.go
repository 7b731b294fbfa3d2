package core

// ComputeMetrics compares predictions against ground-truth labels and returns percentage metrics.
// Precision, recall and F1 are 0 when their denominator is 0. labels and predictions must have the
// same length; an empty input yields zero metrics.
func ComputeMetrics(labels []int, predictions []Prediction) Metrics {
	var tp, fp, tn, fn float64
	for i, p := range predictions {
		actual := labels[i] == 1
		predicted := p == Spam
		switch {
		case actual && predicted:
			tp++
		case !actual && predicted:
			fp++
		case !actual && !predicted:
			tn++
		default:
			fn++
		}
	}

	precision := safeDivide(tp, tp+fp)
	recall := safeDivide(tp, tp+fn)

	var f1 float64
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return Metrics{
		Accuracy:  safeDivide(tp+tn, tp+fp+tn+fn) * 100,
		Precision: precision * 100,
		Recall:    recall * 100,
		F1:        f1 * 100,
	}
}

// Predict thresholds every probability in order
func Predict(probabilities []float64) []Prediction {
	predictions := make([]Prediction, len(probabilities))
	for i, p := range probabilities {
		predictions[i] = PredictionFor(p)
	}
	return predictions
}

func safeDivide(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
