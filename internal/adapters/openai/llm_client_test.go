package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikey/spam-ensemble/internal/config"
	"github.com/mikey/spam-ensemble/internal/utils"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "URGENT: claim your reward")

		resp := openai.ChatCompletionResponse{
			ID: "chatcmpl-1",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newTestClient(url string) *OpenAIClient {
	clientCfg := openai.DefaultConfig("test-key")
	clientCfg.BaseURL = url
	return NewOpenAIClient(
		openai.NewClientWithConfig(clientCfg),
		"gpt-4", 100, 0.1, 0.9, 4096,
		zap.NewNop(),
		utils.NewTextProcessor(zap.NewNop()),
	)
}

func TestOpenAIClient_Classify(t *testing.T) {
	t.Run("probability from JSON reply", func(t *testing.T) {
		server := newCompletionServer(t, `{"spam_probability": 0.97, "explanation": "reward bait"}`)
		defer server.Close()

		p, err := newTestClient(server.URL).Classify(context.Background(), "URGENT: claim your reward")

		require.NoError(t, err)
		assert.Equal(t, 0.97, p)
	})

	t.Run("reply without JSON", func(t *testing.T) {
		server := newCompletionServer(t, "I am not sure")
		defer server.Close()

		_, err := newTestClient(server.URL).Classify(context.Background(), "URGENT: claim your reward")

		assert.ErrorIs(t, err, utils.ErrNoJSON)
	})

	t.Run("API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Classify(context.Background(), "hi")

		assert.Error(t, err)
	})
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	factory := NewFactory(cfg, zap.NewNop(), utils.NewTextProcessor(zap.NewNop()))

	_, err := factory.CreateClassifier()
	assert.Error(t, err)

	cfg.Set("openai.api_key", "sk-test")
	client, err := factory.CreateClassifier()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", client.modelName)
	assert.Equal(t, 4096, client.maxTextSize)
}
