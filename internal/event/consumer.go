package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	pkgkafka "github.com/sanavullashaik/salesFlow/pkg/kafka"

	"github.com/sanavullashaik/salesFlow/internal/domain"
	"github.com/sanavullashaik/salesFlow/internal/service"
)

// Kafka topics carrying product catalog changes that must be reflected in
// the search index.
var (
	TopicProductCreated = pkgkafka.Topic("product", "created")
	TopicProductUpdated = pkgkafka.Topic("product", "updated")
	TopicProductDeleted = pkgkafka.Topic("product", "deleted")
)

// Topics lists every topic the consumer subscribes to.
func Topics() []string {
	return []string{TopicProductCreated, TopicProductUpdated, TopicProductDeleted}
}

// productDeletedData is the payload of a product.deleted event.
type productDeletedData struct {
	ID string `json:"id"`
}

// Consumer handles product domain events and keeps the search index in sync.
type Consumer struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewConsumer creates a product-event consumer.
func NewConsumer(svc *service.SearchService, logger *slog.Logger) *Consumer {
	return &Consumer{
		service: svc,
		logger:  logger,
	}
}

// Handle processes a Kafka event based on its type.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicProductCreated, TopicProductUpdated:
		return c.handleProductUpserted(ctx, event)
	case TopicProductDeleted:
		return c.handleProductDeleted(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

// handleProductUpserted indexes (or re-indexes) a product from a created or
// updated event.
func (c *Consumer) handleProductUpserted(ctx context.Context, event *pkgkafka.Event) error {
	var product domain.Product
	if err := json.Unmarshal(event.Data, &product); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", event.EventType, err)
	}
	if product.ID == "" {
		product.ID = event.AggregateID
	}

	if err := c.service.IndexProduct(ctx, &product); err != nil {
		return fmt.Errorf("index product from %s event: %w", event.EventType, err)
	}

	c.logger.InfoContext(ctx, "indexed product from event",
		slog.String("event_type", event.EventType),
		slog.String("product_id", product.ID),
	)
	return nil
}

// handleProductDeleted removes a deleted product from the index.
func (c *Consumer) handleProductDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data productDeletedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal product.deleted data: %w", err)
	}
	if data.ID == "" {
		data.ID = event.AggregateID
	}

	if err := c.service.DeleteProduct(ctx, data.ID); err != nil {
		return fmt.Errorf("delete product from deleted event: %w", err)
	}

	c.logger.InfoContext(ctx, "deleted product from event",
		slog.String("product_id", data.ID),
	)
	return nil
}
