package elasticsearch_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanavullashaik/salesFlow/internal/domain"
	esengine "github.com/sanavullashaik/salesFlow/internal/engine/elasticsearch"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine creates an Elasticsearch engine for integration tests.
// It skips the test if ELASTICSEARCH_URL is not set.
func newTestEngine(t *testing.T) *esengine.Engine {
	t.Helper()

	esURL := os.Getenv("ELASTICSEARCH_URL")
	if esURL == "" {
		t.Skip("ELASTICSEARCH_URL not set — skipping Elasticsearch integration tests")
	}

	// Unique test index per run to avoid data conflicts.
	indexName := fmt.Sprintf("test_products_%d", time.Now().UnixNano())

	eng, err := esengine.New(esURL, indexName, 0, discardLogger())
	require.NoError(t, err, "failed to create Elasticsearch engine")

	ctx := context.Background()
	require.NoError(t, eng.EnsureIndex(ctx))

	t.Cleanup(func() {
		_ = eng.RecreateIndex(context.Background())
	})

	return eng
}

func newTestProduct(name, category string, price float64) domain.Product {
	return domain.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: "test product " + name,
		Category:    category,
		Price:       price,
		Stock:       10,
		Brand:       "Acme",
	}
}

func TestIntegrationIndexAndSearch(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	product := newTestProduct("iPhone 14", "phones", 799.0)
	require.NoError(t, eng.Index(ctx, &product))

	results, err := eng.Search(ctx, "iphone", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	found := false
	for _, p := range results {
		if p.ID == product.ID {
			found = true
		}
	}
	assert.True(t, found, "indexed product should be returned for its own name")
}

func TestIntegrationAutocomplete(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	products := []domain.Product{
		newTestProduct("iPhone 14", "phones", 799.0),
		newTestProduct("iPhone 14 Pro", "phones", 999.0),
		newTestProduct("Galaxy S23", "phones", 899.0),
	}
	require.NoError(t, eng.BulkIndex(ctx, products))

	suggestions, err := eng.Autocomplete(ctx, "iph", 5)
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	assert.LessOrEqual(t, len(suggestions), 5)

	seen := make(map[string]bool)
	for _, s := range suggestions {
		key := s.Text
		assert.False(t, seen[key], "suggestions must be unique")
		seen[key] = true
	}
}

func TestIntegrationRecreateIndexIdempotent(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.RecreateIndex(ctx))
	require.NoError(t, eng.RecreateIndex(ctx))

	// A fresh index accepts writes immediately.
	product := newTestProduct("Test Monitor", "monitors", 249.0)
	require.NoError(t, eng.Index(ctx, &product))
}

func TestIntegrationDelete(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	product := newTestProduct("ThinkPad X1", "laptops", 1499.0)
	require.NoError(t, eng.Index(ctx, &product))
	require.NoError(t, eng.Delete(ctx, product.ID))

	// Deleting a missing document is not an error.
	require.NoError(t, eng.Delete(ctx, uuid.New().String()))
}
