package gradio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissingField is returned when the prediction output carries none of the expected fields
var ErrMissingField = errors.New("probability field missing from prediction output")

// Classifier adapts a Gradio space to the core.ClassifierClient interface.
// The probability is read from the first of fields present in the output.
type Classifier struct {
	client *Client
	fields []string
}

// NewClassifier creates a new Classifier
func NewClassifier(client *Client, fields []string) *Classifier {
	return &Classifier{client: client, fields: fields}
}

// Classify returns the spam probability reported by the space for text
func (c *Classifier) Classify(ctx context.Context, text string) (float64, error) {
	outputs, err := c.client.Predict(ctx, text)
	if err != nil {
		return 0, err
	}
	if len(outputs) == 0 {
		return 0, errors.New("prediction output is empty")
	}
	return ExtractProbability(outputs[0], c.fields)
}

// ExtractProbability reads the first present field of fields from a JSON object.
// The object may itself be JSON-encoded inside a string; numeric strings are accepted.
func ExtractProbability(output json.RawMessage, fields []string) (float64, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(output, &obj); err != nil {
		var encoded string
		if json.Unmarshal(output, &encoded) != nil {
			return 0, fmt.Errorf("prediction output is not an object: %s", truncate(output))
		}
		if err := json.Unmarshal([]byte(encoded), &obj); err != nil {
			return 0, fmt.Errorf("prediction output is not an object: %s", truncate(output))
		}
	}

	for _, field := range fields {
		raw, ok := obj[field]
		if !ok || bytes.Equal(raw, []byte("null")) {
			continue
		}
		return parseNumber(field, raw)
	}
	return 0, fmt.Errorf("%w: expected one of %s", ErrMissingField, strings.Join(fields, ", "))
}

func parseNumber(field string, raw json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("field %s is not a number: %s", field, truncate(raw))
}

func truncate(raw []byte) string {
	if len(raw) > 200 {
		return string(raw[:200]) + "..."
	}
	return string(raw)
}
