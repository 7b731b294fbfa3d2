package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/spam-ensemble/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ContentGenerator is the subset of *genai.GenerativeModel used here
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient classifies text with Google Gemini
type GeminiClient struct {
	client        *genai.Client
	model         ContentGenerator
	modelName     string
	maxTextSize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	ctx context.Context,
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxTextSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = genai.NewUserContent(genai.Text(utils.SystemPrompt))

	c := newGeminiClient(model, modelName, maxTextSize, logger, textProcessor)
	c.client = client
	return c, nil
}

func newGeminiClient(model ContentGenerator, modelName string, maxTextSize int, logger *zap.Logger, textProcessor *utils.TextProcessor) *GeminiClient {
	return &GeminiClient{
		model:         model,
		modelName:     modelName,
		maxTextSize:   maxTextSize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Classify asks the model for the spam probability of text
func (c *GeminiClient) Classify(ctx context.Context, text string) (float64, error) {
	prompt := utils.BuildSpamPrompt(c.textProcessor.ProcessText(text, c.maxTextSize))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return 0, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return 0, fmt.Errorf("empty response from Gemini")
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			reply.WriteString(string(t))
		}
	}

	c.logger.Debug("Gemini completion received",
		zap.String("model", c.modelName),
		zap.Int("response_size", reply.Len()))

	return utils.ParseSpamProbability(reply.String())
}
