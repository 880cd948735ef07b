package service

import (
	"context"
	"fmt"

	"github.com/sanavullashaik/salesFlow/internal/sample"
)

// RecreateIndex deletes and recreates the product index. Destructive: all
// indexed documents are lost.
func (s *SearchService) RecreateIndex(ctx context.Context) error {
	if err := s.engine.RecreateIndex(ctx); err != nil {
		return fmt.Errorf("recreate index: %w", err)
	}
	s.logger.InfoContext(ctx, "index recreated")
	return nil
}

// LoadSampleData indexes the built-in sample catalog and returns how many
// products were loaded. Sample IDs are stable, so repeated loads overwrite.
func (s *SearchService) LoadSampleData(ctx context.Context) (int, error) {
	products := sample.Products()
	if err := s.BulkIndexProducts(ctx, products); err != nil {
		return 0, fmt.Errorf("load sample data: %w", err)
	}
	return len(products), nil
}
