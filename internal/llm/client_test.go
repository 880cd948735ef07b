package llm

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatAPI struct {
	response string
	err      error
	requests []openai.ChatCompletionRequest
}

func (f *fakeChatAPI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.response}},
		},
	}, nil
}

func (f *fakeChatAPI) ListModels(context.Context) (openai.ModelsList, error) {
	return openai.ModelsList{}, f.err
}

func newTestClient(fake *fakeChatAPI) *Client {
	return &Client{
		api:         fake,
		model:       DefaultModel,
		visionModel: DefaultVisionModel,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestScoreCandidateParsesAndClamps(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
	}{
		{"plain number", "85", 85},
		{"whitespace", "  92.5\n", 92.5},
		{"clamped high", "150", 100},
		{"clamped low", "-20", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeChatAPI{response: tt.response}
			score, err := newTestClient(fake).ScoreCandidate(context.Background(), "iphone", "Name: iPhone 14")
			require.NoError(t, err)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestScoreCandidateTruncatesInputs(t *testing.T) {
	fake := &fakeChatAPI{response: "50"}
	longQuery := strings.Repeat("q", 500)
	longProduct := strings.Repeat("p", 500)

	_, err := newTestClient(fake).ScoreCandidate(context.Background(), longQuery, longProduct)
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	userMsg := req.Messages[1].Content
	assert.Contains(t, userMsg, strings.Repeat("q", maxPromptFieldLen))
	assert.NotContains(t, userMsg, strings.Repeat("q", maxPromptFieldLen+1))
	assert.Equal(t, 10, req.MaxTokens)
	assert.InDelta(t, 0.1, req.Temperature, 0.001)
}

func TestScoreCandidateNonNumericResponse(t *testing.T) {
	fake := &fakeChatAPI{response: "this product is a great match"}
	_, err := newTestClient(fake).ScoreCandidate(context.Background(), "iphone", "iPhone 14")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse score")
}

func TestExtractProductRequest(t *testing.T) {
	fake := &fakeChatAPI{response: `{
		"product_name": "Dell Latitude 5440",
		"description": "Business laptop for the sales team",
		"specifications": {"ram": "16GB", "storage": "512GB SSD"},
		"quantity": 5,
		"priority": "high"
	}`}

	req, err := newTestClient(fake).ExtractProductRequest(context.Background(), "We need 5 laptops...")
	require.NoError(t, err)
	assert.Equal(t, "Dell Latitude 5440", req.ProductName)
	assert.Equal(t, 5, req.Quantity)
	assert.Equal(t, "high", req.Priority)
	assert.Equal(t, "16GB", req.Specifications["ram"])
}

func TestExtractProductRequestStripsFences(t *testing.T) {
	fake := &fakeChatAPI{response: "```json\n{\"product_name\":\"Mouse\",\"description\":\"\",\"specifications\":{},\"quantity\":1,\"priority\":\"low\"}\n```"}

	req, err := newTestClient(fake).ExtractProductRequest(context.Background(), "need a mouse")
	require.NoError(t, err)
	assert.Equal(t, "Mouse", req.ProductName)
	assert.NotNil(t, req.Specifications)
}

func TestExtractProductInfoUsesVisionModel(t *testing.T) {
	fake := &fakeChatAPI{response: `{"product_name":"Monitor","description":"27 inch","specifications":{},"category":"monitors","estimated_price_range":"$200-$300"}`}

	info, err := newTestClient(fake).ExtractProductInfo(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Monitor", info.ProductName)
	assert.Equal(t, "monitors", info.Category)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, DefaultVisionModel, req.Model)
	require.Len(t, req.Messages[1].MultiContent, 2)
	imagePart := req.Messages[1].MultiContent[1]
	assert.True(t, strings.HasPrefix(imagePart.ImageURL.URL, "data:image/jpeg;base64,"))
}

func TestNewAppliesDefaults(t *testing.T) {
	c := New(Config{APIKey: "test"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, DefaultVisionModel, c.visionModel)
}
