package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

// esSuggestResponse decodes a combined suggest-plus-search response.
type esSuggestResponse struct {
	Suggest struct {
		ProductSuggestions []struct {
			Options []struct {
				Text  string  `json:"text"`
				Score float64 `json:"_score"`
			} `json:"options"`
		} `json:"product_suggestions"`
	} `json:"suggest"`
	Hits struct {
		Hits []struct {
			Score  float64        `json:"_score"`
			Source domain.Product `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Autocomplete returns prefix suggestions for the given query. A completion
// suggester on name_suggest supplies the primary entries; a phrase-prefix
// match on name supplies secondary entries only when the suggester alone
// cannot fill the requested size. The merged list is deduplicated
// case-insensitively and truncated to size.
func (e *Engine) Autocomplete(ctx context.Context, prefix string, size int) ([]domain.Suggestion, error) {
	if size <= 0 {
		size = 5
	}

	body := map[string]interface{}{
		"suggest": map[string]interface{}{
			"product_suggestions": map[string]interface{}{
				"prefix": prefix,
				"completion": map[string]interface{}{
					"field":           "name_suggest",
					"size":            size,
					"skip_duplicates": true,
				},
			},
		},
		"query": map[string]interface{}{
			"match_phrase_prefix": map[string]interface{}{
				"name": map[string]interface{}{
					"query":          prefix,
					"max_expansions": 3,
				},
			},
		},
		"_source": []string{"name", "category", "brand"},
		"size":    3,
		"timeout": "30ms",
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch autocomplete: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch autocomplete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil && errResp.Error.Type != "" {
			return nil, fmt.Errorf("elasticsearch autocomplete: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch autocomplete: unexpected status %s", res.Status())
	}

	var esResp esSuggestResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch autocomplete: decode response: %w", err)
	}

	suggestions := make([]domain.Suggestion, 0, size)

	// Completion-suggester entries take priority.
	for _, group := range esResp.Suggest.ProductSuggestions {
		for i, option := range group.Options {
			if i >= size {
				break
			}
			score := option.Score
			if score == 0 {
				score = 100
			}
			suggestions = append(suggestions, domain.Suggestion{
				Text:  option.Text,
				Type:  domain.SuggestionTypeProduct,
				Score: score,
			})
		}
	}

	// Top up from search hits whose names actually start with the prefix.
	if len(suggestions) < size {
		prefixLower := strings.ToLower(prefix)
		for _, hit := range esResp.Hits.Hits {
			if len(suggestions) >= size {
				break
			}
			name := hit.Source.Name
			if name == "" || !strings.HasPrefix(strings.ToLower(name), prefixLower) {
				continue
			}
			score := hit.Score
			if score == 0 {
				score = 50
			}
			suggestions = append(suggestions, domain.Suggestion{
				Text:  name,
				Type:  domain.SuggestionTypeSearchResult,
				Score: score,
			})
		}
	}

	return dedupeSuggestions(suggestions, size), nil
}

// dedupeSuggestions removes case-insensitive duplicates by text, preserving
// order, and truncates to size.
func dedupeSuggestions(suggestions []domain.Suggestion, size int) []domain.Suggestion {
	seen := make(map[string]struct{}, len(suggestions))
	unique := make([]domain.Suggestion, 0, size)
	for _, s := range suggestions {
		key := strings.ToLower(s.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, s)
		if len(unique) >= size {
			break
		}
	}
	return unique
}
