package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

// Server-side timeouts for the latency-optimized queries. The fallback runs
// an even tighter budget and is allowed to return fewer results.
const (
	instantSearchTimeout  = "50ms"
	instantFallbackTimeout = "20ms"
)

// Search executes the full keyword query: bool_prefix matches on the
// search-as-you-type name and description shingle subfields, a best-fields
// multi-match across the analyzed text fields with a 0.3 tie-breaker, and an
// edge-ngram match on name.autocomplete. Name matches are boosted highest,
// description next, then brand and category.
func (e *Engine) Search(ctx context.Context, query string, size int) ([]domain.Product, error) {
	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  query,
							"type":   "bool_prefix",
							"fields": []string{"name", "name._2gram", "name._3gram"},
							"boost":  3,
						},
					},
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  query,
							"type":   "bool_prefix",
							"fields": []string{"description", "description._2gram", "description._3gram"},
							"boost":  2,
						},
					},
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":       query,
							"fields":      []string{"name.standard^4", "description.standard^2", "brand^2", "category^1"},
							"type":        "best_fields",
							"tie_breaker": 0.3,
						},
					},
					map[string]interface{}{
						"match": map[string]interface{}{
							"name.autocomplete": map[string]interface{}{
								"query": query,
								"boost": 2,
							},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"size": size,
	}

	products, err := e.runSearch(ctx, esQuery)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	return products, nil
}

// InstantSearch executes a reduced query under an aggressive server-side
// timeout: a phrase-prefix on name with a small expansion cap plus boosted
// matches on name and brand. On any failure it falls back to a plain name
// match with an even tighter timeout, trading recall for latency.
func (e *Engine) InstantSearch(ctx context.Context, query string, size int) ([]domain.Product, error) {
	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"match_phrase_prefix": map[string]interface{}{
							"name": map[string]interface{}{
								"query":          query,
								"max_expansions": 5,
							},
						},
					},
					map[string]interface{}{
						"match": map[string]interface{}{
							"name": map[string]interface{}{
								"query": query,
								"boost": 2,
							},
						},
					},
					map[string]interface{}{
						"match": map[string]interface{}{
							"brand": map[string]interface{}{
								"query": query,
								"boost": 1.5,
							},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"_source": []string{"id", "name", "brand", "category", "price", "stock", "rating", "reviews_count", "image_url", "description"},
		"size":    size,
		"timeout": instantSearchTimeout,
	}

	products, err := e.runSearch(ctx, esQuery)
	if err == nil {
		return products, nil
	}

	e.logger.Warn("instant search failed, using fallback query", "error", err.Error())

	fallback := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"name": query,
			},
		},
		"_source": []string{"id", "name", "brand", "category", "price", "stock", "rating", "reviews_count", "image_url"},
		"size":    size,
		"timeout": instantFallbackTimeout,
	}

	products, err = e.runSearch(ctx, fallback)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch instant search fallback: %w", err)
	}
	return products, nil
}

// VectorSearch scores every document by cosine similarity between the query
// vector and the stored embedding, offset by +1.0 to keep scores
// non-negative. This is a brute-force scan over the whole index, which is
// fine for small catalogs.
func (e *Engine) VectorSearch(ctx context.Context, vector []float32, size int) ([]domain.Product, error) {
	if e.embeddingDims == 0 {
		return nil, fmt.Errorf("elasticsearch vector search: index has no vector field")
	}
	if len(vector) != e.embeddingDims {
		return nil, fmt.Errorf("elasticsearch vector search: query vector has %d dimensions, index expects %d",
			len(vector), e.embeddingDims)
	}

	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"script_score": map[string]interface{}{
				"query": map[string]interface{}{
					"match_all": map[string]interface{}{},
				},
				"script": map[string]interface{}{
					"source": "cosineSimilarity(params.query_vector, 'embedding') + 1.0",
					"params": map[string]interface{}{
						"query_vector": vector,
					},
				},
			},
		},
		"size": size,
	}

	products, err := e.runSearch(ctx, esQuery)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch vector search: %w", err)
	}
	return products, nil
}

// runSearch executes a query body against the products index and returns the
// hit sources in order.
func (e *Engine) runSearch(ctx context.Context, body map[string]interface{}) ([]domain.Product, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil && errResp.Error.Type != "" {
			return nil, fmt.Errorf("%s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("unexpected status %s", res.Status())
	}

	var esResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	products := make([]domain.Product, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		products = append(products, hit.Source)
	}
	return products, nil
}
