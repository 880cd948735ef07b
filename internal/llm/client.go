package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

// Default Groq settings. Groq exposes an OpenAI-compatible API, so the
// standard client works with only a base URL override.
const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.1-8b-instant"
	DefaultVisionModel = "llama-3.2-90b-vision-preview"
)

// rerankSystemPrompt constrains the model to emit a bare numeric score.
const rerankSystemPrompt = `You are a product matching expert. Analyze the search query and candidate product to determine their relevance score from 0-100. Consider product name, description, specifications, category, and how well they match the search intent.

Scoring guidelines:
- 90-100: Perfect match (exact product or very close variant)
- 70-89: Good match (same category, similar features)
- 50-69: Moderate match (related but different product)
- 30-49: Weak match (some relevance but not ideal)
- 0-29: Poor match (little to no relevance)

Output only the numeric score (0-100).`

const matchSystemPrompt = `You are a product matching expert. Analyze the product request and candidate product to determine their compatibility score from 0-100. Consider all specifications and requirements. Output only the numeric score.`

const extractRequestSystemPrompt = `Extract product request details from the following email. Respond with a JSON object with exactly these keys: "product_name" (string), "description" (string), "specifications" (object of string to string), "quantity" (integer), "priority" (string).`

const extractInfoSystemPrompt = `You are a product information extraction expert. Analyze the product image and extract detailed information about the product. Be as specific as possible about technical specifications, dimensions, materials, brand, model, etc. Respond with a JSON object with exactly these keys: "product_name" (string), "description" (string), "specifications" (object of string to string), "category" (string), "estimated_price_range" (string).`

// maxPromptFieldLen bounds the query and product strings sent for scoring.
const maxPromptFieldLen = 100

// chatAPI is the subset of the OpenAI-compatible client the wrapper uses.
// Narrowed so tests can substitute a fake.
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Config holds the hosted-LLM settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string

	// HTTPClient optionally replaces the transport, e.g. with a
	// circuit-breaker wrapper.
	HTTPClient openai.HTTPDoer
}

// Client wraps a hosted OpenAI-compatible chat API (Groq) for relevance
// scoring and structured extraction.
type Client struct {
	api         chatAPI
	model       string
	visionModel string
	logger      *slog.Logger
}

// New creates a Groq-backed LLM client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = DefaultVisionModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	return &Client{
		api:         openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		logger:      logger,
	}
}

// ScoreCandidate rates the relevance of a product summary against a search
// query on a 0-100 scale. Both inputs are truncated to keep the prompt small
// and the response is clamped to [0,100].
func (c *Client) ScoreCandidate(ctx context.Context, query, product string) (float64, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: rerankSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Search Query: %s\nCandidate Product: %s", truncate(query, maxPromptFieldLen), truncate(product, maxPromptFieldLen))},
		},
		MaxTokens:   10,
		Temperature: 0.1,
	})
	if err != nil {
		return 0, fmt.Errorf("llm score candidate: %w", err)
	}

	return parseScore(resp)
}

// ScoreMatch rates the compatibility of a candidate product against a full
// product request on a 0-100 scale.
func (c *Client) ScoreMatch(ctx context.Context, request, product string) (float64, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: matchSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Product Request: %s\nCandidate Product: %s", request, product)},
		},
		MaxTokens:   10,
		Temperature: 0.1,
	})
	if err != nil {
		return 0, fmt.Errorf("llm score match: %w", err)
	}

	return parseScore(resp)
}

// ExtractProductRequest pulls a structured purchase request out of raw email
// content.
func (c *Client) ExtractProductRequest(ctx context.Context, emailContent string) (*domain.ProductRequest, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractRequestSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: emailContent},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("llm extract product request: %w", err)
	}

	content, err := firstChoice(resp)
	if err != nil {
		return nil, fmt.Errorf("llm extract product request: %w", err)
	}

	var request domain.ProductRequest
	if err := json.Unmarshal([]byte(extractJSON(content)), &request); err != nil {
		return nil, fmt.Errorf("llm extract product request: parse response: %w", err)
	}
	if request.Specifications == nil {
		request.Specifications = make(map[string]string)
	}
	return &request, nil
}

// ExtractProductInfo analyzes a product image with the vision model and
// returns structured product data. The image is sent inline as a data URL.
func (c *Client) ExtractProductInfo(ctx context.Context, imageData []byte, mimeType string) (*domain.ProductInfo, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractInfoSystemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: "Extract product information from this image."},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
				},
			},
		},
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("llm extract product info: %w", err)
	}

	content, err := firstChoice(resp)
	if err != nil {
		return nil, fmt.Errorf("llm extract product info: %w", err)
	}

	var info domain.ProductInfo
	if err := json.Unmarshal([]byte(extractJSON(content)), &info); err != nil {
		return nil, fmt.Errorf("llm extract product info: parse response: %w", err)
	}
	if info.Specifications == nil {
		info.Specifications = make(map[string]string)
	}
	return &info, nil
}

// Ping verifies API availability via ListModels, which is free.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("llm ping: %w", err)
	}
	return nil
}

func firstChoice(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

func parseScore(resp openai.ChatCompletionResponse) (float64, error) {
	content, err := firstChoice(resp)
	if err != nil {
		return 0, err
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(content), 64)
	if err != nil {
		return 0, fmt.Errorf("parse score %q: %w", content, err)
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, nil
}

// extractJSON strips markdown fences and surrounding prose from a model
// response, returning the first top-level JSON object.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return content
	}
	return content[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
