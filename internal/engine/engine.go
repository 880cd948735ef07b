package engine

import (
	"context"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

// SearchEngine defines the interface for indexing and searching products.
// Implementations may use Elasticsearch or in-memory storage.
type SearchEngine interface {
	// EnsureIndex creates the product index with its mapping if absent.
	// It is a no-op when the index already exists.
	EnsureIndex(ctx context.Context) error

	// RecreateIndex deletes and recreates the product index unconditionally.
	// All indexed documents are lost.
	RecreateIndex(ctx context.Context) error

	// Index adds or updates a single product.
	Index(ctx context.Context, product *domain.Product) error

	// BulkIndex adds or updates multiple products in one batch write.
	BulkIndex(ctx context.Context, products []domain.Product) error

	// Delete removes a product by its ID. Deleting a missing product is
	// not an error.
	Delete(ctx context.Context, id string) error

	// Search executes the full keyword query with per-field boosts.
	Search(ctx context.Context, query string, size int) ([]domain.Product, error)

	// InstantSearch executes a latency-optimized query with an aggressive
	// server-side timeout, falling back to a reduced query on failure.
	InstantSearch(ctx context.Context, query string, size int) ([]domain.Product, error)

	// Autocomplete returns prefix suggestions, deduplicated
	// case-insensitively and truncated to size.
	Autocomplete(ctx context.Context, prefix string, size int) ([]domain.Suggestion, error)

	// VectorSearch scores documents by cosine similarity against the given
	// query embedding.
	VectorSearch(ctx context.Context, vector []float32, size int) ([]domain.Product, error)

	// Ping checks whether the backing store is reachable.
	Ping(ctx context.Context) error
}
