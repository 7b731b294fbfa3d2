package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SpamPrompt asks a general purpose LLM for a spam probability. It takes the message text.
const SpamPrompt = `You are a spam detection system for short text messages. Analyze the following message and estimate how likely it is to be spam.
Respond with a JSON object containing:
- spam_probability: number between 0 and 1 (higher means more likely to be spam)
- explanation: string (brief explanation of your assessment)

Message:
%s

Respond only with the JSON object and nothing else.`

// SystemPrompt is sent as the system message where the backend supports one
const SystemPrompt = "You are a spam detection system. Respond only with JSON."

// ErrNoJSON is returned when an LLM reply contains no JSON object
var ErrNoJSON = errors.New("no JSON object in LLM response")

// SpamAnalysisResponse is the structured reply expected from an LLM
type SpamAnalysisResponse struct {
	SpamProbability *float64 `json:"spam_probability"`
	Explanation     string   `json:"explanation"`
}

// BuildSpamPrompt formats SpamPrompt for text
func BuildSpamPrompt(text string) string {
	return fmt.Sprintf(SpamPrompt, text)
}

// ParseSpamProbability extracts spam_probability from an LLM reply. Replies that wrap the
// JSON object in prose or code fences are accepted.
func ParseSpamProbability(reply string) (float64, error) {
	var resp SpamAnalysisResponse
	if err := json.Unmarshal([]byte(reply), &resp); err != nil {
		start := strings.Index(reply, "{")
		end := strings.LastIndex(reply, "}")
		if start < 0 || end <= start {
			return 0, ErrNoJSON
		}
		if err := json.Unmarshal([]byte(reply[start:end+1]), &resp); err != nil {
			return 0, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}

	if resp.SpamProbability == nil {
		return 0, errors.New("LLM response has no spam_probability")
	}
	return *resp.SpamProbability, nil
}
