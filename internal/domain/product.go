package domain

// Product is a product document in the search index. A product is written
// once per ID; re-indexing with the same ID replaces the document.
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Category       string            `json:"category"`
	Price          float64           `json:"price"`
	Stock          int               `json:"stock"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Brand          string            `json:"brand,omitempty"`
	Rating         float64           `json:"rating,omitempty"`
	ReviewsCount   int               `json:"reviews_count,omitempty"`
	ImageURL       string            `json:"image_url,omitempty"`

	// Embedding is the dense vector attached at index time when semantic
	// search is enabled. Its length must match the index mapping's declared
	// dimension.
	Embedding []float32 `json:"embedding,omitempty"`
}

// SearchResult is a product projection with a query-time relevance score in
// [0,100]. It is never persisted.
type SearchResult struct {
	Product
	RelevanceScore float64 `json:"relevance_score"`
}

// Suggestion types returned by autocomplete. Completion-suggester hits take
// priority over secondary search hits.
const (
	SuggestionTypeProduct      = "product"
	SuggestionTypeSearchResult = "search_result"
)

// Suggestion is a single autocomplete entry.
type Suggestion struct {
	Text  string  `json:"text"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

// ProductRequest is a structured purchase request extracted from an email.
// It is consumed only as a query seed for matching and never persisted.
type ProductRequest struct {
	ProductName    string            `json:"product_name"`
	Description    string            `json:"description"`
	Specifications map[string]string `json:"specifications"`
	Quantity       int               `json:"quantity"`
	Priority       string            `json:"priority"`
}

// ProductInfo is structured product data extracted from an image.
type ProductInfo struct {
	ProductName         string            `json:"product_name"`
	Description         string            `json:"description"`
	Specifications      map[string]string `json:"specifications"`
	Category            string            `json:"category"`
	EstimatedPriceRange string            `json:"estimated_price_range"`
}
