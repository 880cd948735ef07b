package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

// Engine is an in-memory implementation of the SearchEngine interface.
// It provides simple substring matching on name, description and brand,
// prefix suggestions, and exact cosine similarity for vector search.
// Thread-safe via sync.RWMutex. Intended for tests and local development.
type Engine struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	order    []string
}

// New creates a new in-memory search engine.
func New() *Engine {
	return &Engine{
		products: make(map[string]domain.Product),
	}
}

// EnsureIndex is a no-op for the in-memory engine.
func (e *Engine) EnsureIndex(_ context.Context) error {
	return nil
}

// RecreateIndex drops all stored products.
func (e *Engine) RecreateIndex(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.products = make(map[string]domain.Product)
	e.order = nil
	return nil
}

// Index adds or updates a single product.
func (e *Engine) Index(_ context.Context, product *domain.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store(*product)
	return nil
}

// BulkIndex adds or updates multiple products.
func (e *Engine) BulkIndex(_ context.Context, products []domain.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range products {
		e.store(products[i])
	}
	return nil
}

// store records a product, keeping insertion order for stable results.
// Caller holds the write lock.
func (e *Engine) store(p domain.Product) {
	if _, exists := e.products[p.ID]; !exists {
		e.order = append(e.order, p.ID)
	}
	e.products[p.ID] = p
}

// Delete removes a product by its ID. Deleting a missing product is not an error.
func (e *Engine) Delete(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.products[id]; !exists {
		return nil
	}
	delete(e.products, id)
	for i, oid := range e.order {
		if oid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

// Search returns products whose name, description or brand contains the
// query, name matches first.
func (e *Engine) Search(_ context.Context, query string, size int) ([]domain.Product, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	queryLower := strings.ToLower(query)

	var nameMatches, otherMatches []domain.Product
	for _, id := range e.order {
		p := e.products[id]
		switch {
		case strings.Contains(strings.ToLower(p.Name), queryLower):
			nameMatches = append(nameMatches, p)
		case strings.Contains(strings.ToLower(p.Description), queryLower),
			strings.Contains(strings.ToLower(p.Brand), queryLower):
			otherMatches = append(otherMatches, p)
		}
	}

	results := append(nameMatches, otherMatches...)
	if len(results) > size {
		results = results[:size]
	}
	return results, nil
}

// InstantSearch matches on name only.
func (e *Engine) InstantSearch(_ context.Context, query string, size int) ([]domain.Product, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	queryLower := strings.ToLower(query)

	results := make([]domain.Product, 0, size)
	for _, id := range e.order {
		p := e.products[id]
		if strings.Contains(strings.ToLower(p.Name), queryLower) {
			results = append(results, p)
			if len(results) >= size {
				break
			}
		}
	}
	return results, nil
}

// Autocomplete returns names starting with the prefix, deduplicated
// case-insensitively and truncated to size.
func (e *Engine) Autocomplete(_ context.Context, prefix string, size int) ([]domain.Suggestion, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if size <= 0 {
		size = 5
	}
	prefixLower := strings.ToLower(prefix)

	seen := make(map[string]struct{})
	suggestions := make([]domain.Suggestion, 0, size)
	for _, id := range e.order {
		p := e.products[id]
		if !strings.HasPrefix(strings.ToLower(p.Name), prefixLower) {
			continue
		}
		key := strings.ToLower(p.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, domain.Suggestion{
			Text:  p.Name,
			Type:  domain.SuggestionTypeProduct,
			Score: 100,
		})
		if len(suggestions) >= size {
			break
		}
	}
	return suggestions, nil
}

// VectorSearch scores stored products by cosine similarity offset by +1.0,
// matching the Elasticsearch script, and returns them best-first. Products
// without an embedding are skipped.
func (e *Engine) VectorSearch(_ context.Context, vector []float32, size int) ([]domain.Product, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	type scored struct {
		product domain.Product
		score   float64
	}

	var candidates []scored
	for _, id := range e.order {
		p := e.products[id]
		if len(p.Embedding) == 0 {
			continue
		}
		if len(p.Embedding) != len(vector) {
			return nil, fmt.Errorf("memory vector search: product %s embedding has %d dimensions, query has %d",
				p.ID, len(p.Embedding), len(vector))
		}
		candidates = append(candidates, scored{product: p, score: cosineSimilarity(vector, p.Embedding) + 1.0})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	results := make([]domain.Product, 0, size)
	for _, c := range candidates {
		results = append(results, c.product)
		if len(results) >= size {
			break
		}
	}
	return results, nil
}

// Ping always succeeds.
func (e *Engine) Ping(_ context.Context) error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
