package event

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgkafka "github.com/sanavullashaik/salesFlow/pkg/kafka"

	"github.com/sanavullashaik/salesFlow/internal/domain"
	"github.com/sanavullashaik/salesFlow/internal/engine/memory"
	"github.com/sanavullashaik/salesFlow/internal/rerank"
	"github.com/sanavullashaik/salesFlow/internal/service"
)

func newTestConsumer(t *testing.T) (*Consumer, *service.SearchService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(service.Deps{
		Engine:   memory.New(),
		Reranker: rerank.New(nil, logger),
	}, logger)
	return NewConsumer(svc, logger), svc
}

func mustEvent(t *testing.T, eventType, aggregateID string, data any) *pkgkafka.Event {
	t.Helper()
	event, err := pkgkafka.NewEvent(eventType, aggregateID, "product", "catalog", data)
	require.NoError(t, err)
	return event
}

func TestHandleProductCreatedIndexes(t *testing.T) {
	consumer, svc := newTestConsumer(t)
	ctx := context.Background()

	event := mustEvent(t, TopicProductCreated, "p1", domain.Product{
		ID:       "p1",
		Name:     "iPhone 14",
		Category: "phones",
		Price:    799.0,
	})
	require.NoError(t, consumer.Handle(ctx, event))

	results, err := svc.Search(ctx, "iphone", 10, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].ID)
}

func TestHandleProductUpdatedReindexes(t *testing.T) {
	consumer, svc := newTestConsumer(t)
	ctx := context.Background()

	require.NoError(t, consumer.Handle(ctx, mustEvent(t, TopicProductCreated, "p1", domain.Product{ID: "p1", Name: "Old Name"})))
	require.NoError(t, consumer.Handle(ctx, mustEvent(t, TopicProductUpdated, "p1", domain.Product{ID: "p1", Name: "New Name"})))

	results, err := svc.Search(ctx, "new", 10, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestHandleProductDeletedRemoves(t *testing.T) {
	consumer, svc := newTestConsumer(t)
	ctx := context.Background()

	require.NoError(t, consumer.Handle(ctx, mustEvent(t, TopicProductCreated, "p1", domain.Product{ID: "p1", Name: "Laptop"})))
	require.NoError(t, consumer.Handle(ctx, mustEvent(t, TopicProductDeleted, "p1", map[string]string{"id": "p1"})))

	results, err := svc.Search(ctx, "laptop", 10, false)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHandleDeletedFallsBackToAggregateID(t *testing.T) {
	consumer, svc := newTestConsumer(t)
	ctx := context.Background()

	require.NoError(t, consumer.Handle(ctx, mustEvent(t, TopicProductCreated, "p1", domain.Product{ID: "p1", Name: "Laptop"})))
	require.NoError(t, consumer.Handle(ctx, mustEvent(t, TopicProductDeleted, "p1", map[string]string{})))

	results, err := svc.Search(ctx, "laptop", 10, false)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHandleUnknownEventTypeIgnored(t *testing.T) {
	consumer, _ := newTestConsumer(t)

	event := mustEvent(t, "salesflow.order.created", "o1", map[string]string{})
	assert.NoError(t, consumer.Handle(context.Background(), event))
}
