package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sanavullashaik/salesFlow/pkg/errors"

	"github.com/sanavullashaik/salesFlow/internal/cache"
	"github.com/sanavullashaik/salesFlow/internal/domain"
	"github.com/sanavullashaik/salesFlow/internal/engine"
	"github.com/sanavullashaik/salesFlow/internal/mail"
	"github.com/sanavullashaik/salesFlow/internal/rerank"
)

// ProductEmbedder computes dense vectors for products at index time.
type ProductEmbedder interface {
	EmbedProduct(ctx context.Context, product *domain.Product) ([]float32, error)
}

// ProductMatcher runs the retrieval-augmented matching pipeline.
type ProductMatcher interface {
	Match(ctx context.Context, request *domain.ProductRequest, topK int) ([]domain.SearchResult, error)
}

// EmailChecker polls the mailbox for product-request emails.
type EmailChecker interface {
	CheckEmails(ctx context.Context) (*mail.CheckResult, error)
}

// ImageExtractor pulls structured product data out of an image.
type ImageExtractor interface {
	ExtractProductInfo(ctx context.Context, imageData []byte, mimeType string) (*domain.ProductInfo, error)
}

// Deps holds the service collaborators. Engine and Reranker are required;
// the rest are optional features that report service-unavailable when used
// without being configured.
type Deps struct {
	Engine   engine.SearchEngine
	Reranker *rerank.Reranker
	Embedder ProductEmbedder
	Matcher  ProductMatcher
	Mail     EmailChecker
	Images   ImageExtractor
	Cache    *cache.Cache
}

// SearchService implements the business logic for indexing, search,
// matching and extraction.
type SearchService struct {
	engine   engine.SearchEngine
	reranker *rerank.Reranker
	embedder ProductEmbedder
	matcher  ProductMatcher
	mail     EmailChecker
	images   ImageExtractor
	cache    *cache.Cache
	logger   *slog.Logger
}

// New creates the search service.
func New(deps Deps, logger *slog.Logger) *SearchService {
	return &SearchService{
		engine:   deps.Engine,
		reranker: deps.Reranker,
		embedder: deps.Embedder,
		matcher:  deps.Matcher,
		mail:     deps.Mail,
		images:   deps.Images,
		cache:    deps.Cache,
		logger:   logger,
	}
}

// clampSize normalizes a result-size parameter.
func clampSize(size, fallback int) int {
	if size <= 0 {
		return fallback
	}
	if size > 100 {
		return 100
	}
	return size
}

// IndexProduct indexes a single product, assigning an ID when missing and
// attaching an embedding when semantic search is enabled.
func (s *SearchService) IndexProduct(ctx context.Context, product *domain.Product) error {
	if product.Name == "" {
		return errors.InvalidInput("product name is required")
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	if err := s.attachEmbedding(ctx, product); err != nil {
		return fmt.Errorf("index product: %w", err)
	}

	if err := s.engine.Index(ctx, product); err != nil {
		return fmt.Errorf("index product: %w", err)
	}

	s.logger.InfoContext(ctx, "product indexed",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)
	return nil
}

// BulkIndexProducts indexes multiple products in one batch write.
func (s *SearchService) BulkIndexProducts(ctx context.Context, products []domain.Product) error {
	for i := range products {
		if products[i].Name == "" {
			return errors.InvalidInput(fmt.Sprintf("product at position %d has no name", i))
		}
		if products[i].ID == "" {
			products[i].ID = uuid.New().String()
		}
		if err := s.attachEmbedding(ctx, &products[i]); err != nil {
			return fmt.Errorf("bulk index: %w", err)
		}
	}

	if err := s.engine.BulkIndex(ctx, products); err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}

	s.logger.InfoContext(ctx, "bulk index completed", slog.Int("count", len(products)))
	return nil
}

// attachEmbedding computes the product embedding when an embedder is
// configured and the product does not already carry one.
func (s *SearchService) attachEmbedding(ctx context.Context, product *domain.Product) error {
	if s.embedder == nil || len(product.Embedding) > 0 {
		return nil
	}
	vector, err := s.embedder.EmbedProduct(ctx, product)
	if err != nil {
		return fmt.Errorf("embed product %s: %w", product.ID, err)
	}
	product.Embedding = vector
	return nil
}

// DeleteProduct removes a product from the index.
func (s *SearchService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return errors.InvalidInput("product id is required")
	}
	if err := s.engine.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.logger.InfoContext(ctx, "product deleted from index", slog.String("product_id", id))
	return nil
}

// Search runs the full keyword query and reranks the hits. With useLLMRerank
// the hosted model scores each candidate, degrading per-candidate to the
// position heuristic on failure; otherwise the heuristic scores apply
// directly.
func (s *SearchService) Search(ctx context.Context, query string, size int, useLLMRerank bool) ([]domain.SearchResult, error) {
	size = clampSize(size, 10)

	products, err := s.engine.Search(ctx, query, size)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	ranked := s.reranker.Rerank(ctx, query, products, size, useLLMRerank)
	results := make([]domain.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, domain.SearchResult{Product: r.Product, RelevanceScore: r.Score})
	}

	s.logger.DebugContext(ctx, "search executed",
		slog.String("query", query),
		slog.Int("results", len(results)),
		slog.Bool("llm_rerank", useLLMRerank),
	)
	return results, nil
}

// InstantSearch runs the latency-optimized query. Results carry heuristic
// position scores; the hosted model is never consulted on this path.
func (s *SearchService) InstantSearch(ctx context.Context, query string, size int) ([]domain.SearchResult, error) {
	size = clampSize(size, 10)

	var products []domain.Product
	cacheKey := cache.Key("instant", query, size)
	if s.cache != nil {
		if cached, ok := s.cache.GetProducts(ctx, cacheKey); ok {
			products = cached
		}
	}

	if products == nil {
		var err error
		products, err = s.engine.InstantSearch(ctx, query, size)
		if err != nil {
			return nil, fmt.Errorf("instant search: %w", err)
		}
		if s.cache != nil {
			s.cache.SetProducts(ctx, cacheKey, products)
		}
	}

	results := make([]domain.SearchResult, 0, len(products))
	for i, p := range products {
		results = append(results, domain.SearchResult{Product: p, RelevanceScore: rerank.HeuristicScore(i)})
	}
	return results, nil
}

// Autocomplete returns prefix suggestions, deduplicated and truncated.
func (s *SearchService) Autocomplete(ctx context.Context, prefix string, size int) ([]domain.Suggestion, error) {
	size = clampSize(size, 5)

	cacheKey := cache.Key("suggest", prefix, size)
	if s.cache != nil {
		if cached, ok := s.cache.GetSuggestions(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	suggestions, err := s.engine.Autocomplete(ctx, prefix, size)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}

	if s.cache != nil {
		s.cache.SetSuggestions(ctx, cacheKey, suggestions)
	}
	return suggestions, nil
}

// Match runs the retrieval-augmented matching pipeline for a product
// request.
func (s *SearchService) Match(ctx context.Context, request *domain.ProductRequest, topK int) ([]domain.SearchResult, error) {
	if s.matcher == nil {
		return nil, errors.Unavailable("product matching is not configured")
	}
	if request.ProductName == "" && request.Description == "" {
		return nil, errors.InvalidInput("product request must name or describe a product")
	}

	matches, err := s.matcher.Match(ctx, request, topK)
	if err != nil {
		return nil, fmt.Errorf("match products: %w", err)
	}
	return matches, nil
}
