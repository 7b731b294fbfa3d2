package bedrock

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/spam-ensemble/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*bedrockruntime.InvokeModelOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestClient(invoker InvokeModelAPI, modelID string) *BedrockClient {
	return NewBedrockClient(invoker, modelID, 200, 0.1, 0.9, 4096, zap.NewNop(), utils.NewTextProcessor(zap.NewNop()))
}

func TestBedrockClient_Claude(t *testing.T) {
	invoker := new(MockInvoker)
	invoker.On("InvokeModel", mock.Anything, mock.MatchedBy(func(in *bedrockruntime.InvokeModelInput) bool {
		var payload map[string]interface{}
		if err := json.Unmarshal(in.Body, &payload); err != nil {
			return false
		}
		_, ok := payload["max_tokens_to_sample"]
		return *in.ModelId == "anthropic.claude-v2" && ok
	})).Return(&bedrockruntime.InvokeModelOutput{
		Body: []byte(`{"completion": " {\"spam_probability\": 0.64}"}`),
	}, nil)

	p, err := newTestClient(invoker, "anthropic.claude-v2").Classify(context.Background(), "cheap meds")

	require.NoError(t, err)
	assert.Equal(t, 0.64, p)
	invoker.AssertExpectations(t)
}

func TestBedrockClient_Titan(t *testing.T) {
	invoker := new(MockInvoker)
	invoker.On("InvokeModel", mock.Anything, mock.Anything).Return(&bedrockruntime.InvokeModelOutput{
		Body: []byte(`{"results": [{"outputText": "{\"spam_probability\": 0.05}"}]}`),
	}, nil)

	p, err := newTestClient(invoker, "amazon.titan-text-express-v1").Classify(context.Background(), "meeting at 3")

	require.NoError(t, err)
	assert.Equal(t, 0.05, p)
}

func TestBedrockClient_EmptyTitanResults(t *testing.T) {
	invoker := new(MockInvoker)
	invoker.On("InvokeModel", mock.Anything, mock.Anything).Return(&bedrockruntime.InvokeModelOutput{
		Body: []byte(`{"results": []}`),
	}, nil)

	_, err := newTestClient(invoker, "amazon.titan-text-express-v1").Classify(context.Background(), "meeting at 3")

	assert.Error(t, err)
}

func TestBedrockClient_InvokeError(t *testing.T) {
	invoker := new(MockInvoker)
	invoker.On("InvokeModel", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, err := newTestClient(invoker, "meta.llama3").Classify(context.Background(), "hi")

	assert.ErrorIs(t, err, assert.AnError)
}
