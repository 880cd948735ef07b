package embed

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

// Defaults for the sentence-embedding provider. Any OpenAI-compatible
// embeddings endpoint works; the dimension must match the index mapping.
const (
	DefaultModel      = "sentence-transformers/all-mpnet-base-v2"
	DefaultDimensions = 768
)

// embeddingAPI is the subset of the OpenAI-compatible client the embedder
// uses. Narrowed so tests can substitute a fake.
type embeddingAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int

	// HTTPClient optionally replaces the transport.
	HTTPClient openai.HTTPDoer
}

// Embedder computes dense vectors for products and free-text requests via an
// OpenAI-compatible embeddings API.
type Embedder struct {
	api        embeddingAPI
	model      openai.EmbeddingModel
	dimensions int
	logger     *slog.Logger
}

// New creates an embedder for the configured provider.
func New(cfg Config, logger *slog.Logger) *Embedder {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	return &Embedder{
		api:        openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		logger:     logger,
	}
}

// Dimensions returns the vector width the embedder produces.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// EmbedText computes the embedding for an arbitrary text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embed text: empty embedding response")
	}

	vector := resp.Data[0].Embedding
	if len(vector) != e.dimensions {
		return nil, fmt.Errorf("embed text: provider returned %d dimensions, expected %d", len(vector), e.dimensions)
	}
	return vector, nil
}

// EmbedProduct computes the embedding for a product from its name,
// description and stringified specifications.
func (e *Embedder) EmbedProduct(ctx context.Context, product *domain.Product) ([]float32, error) {
	return e.EmbedText(ctx, ProductText(product))
}

// EmbedRequest computes the embedding seed for a product request.
func (e *Embedder) EmbedRequest(ctx context.Context, request *domain.ProductRequest) ([]float32, error) {
	return e.EmbedText(ctx, RequestText(request))
}

// ProductText builds the text a product is embedded from.
func ProductText(p *domain.Product) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", p.Name, p.Description, specsString(p.Specifications)))
}

// RequestText builds the text a product request is embedded from.
func RequestText(r *domain.ProductRequest) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", r.ProductName, r.Description, specsString(r.Specifications)))
}

// specsString renders specifications deterministically as "k1=v1 k2=v2"
// with keys sorted, so the same product always embeds the same text.
func specsString(specs map[string]string) string {
	if len(specs) == 0 {
		return ""
	}

	keys := make([]string, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(specs[k])
	}
	return b.String()
}
