package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

// DefaultTTL bounds how long query results stay cached. Short on purpose:
// the catalog changes on every index write and there is no invalidation.
const DefaultTTL = 30 * time.Second

// Cache is a Redis read-through cache for the latency-sensitive read paths
// (instant search and autocomplete). All failures are soft: a cache error
// degrades to a backend query, never to a request failure.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a cache against the given Redis address.
func New(addr string, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		logger: logger,
	}
}

// Ping checks whether Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Key builds a cache key from its parts, lowercasing the query part so
// lookups are case-insensitive.
func Key(kind, query string, size int) string {
	return fmt.Sprintf("salesflow:%s:%s:%d", kind, strings.ToLower(query), size)
}

// GetSuggestions returns cached autocomplete suggestions, if present.
func (c *Cache) GetSuggestions(ctx context.Context, key string) ([]domain.Suggestion, bool) {
	var suggestions []domain.Suggestion
	if !c.get(ctx, key, &suggestions) {
		return nil, false
	}
	return suggestions, true
}

// SetSuggestions caches autocomplete suggestions under the key.
func (c *Cache) SetSuggestions(ctx context.Context, key string, suggestions []domain.Suggestion) {
	c.set(ctx, key, suggestions)
}

// GetProducts returns cached instant-search results, if present.
func (c *Cache) GetProducts(ctx context.Context, key string) ([]domain.Product, bool) {
	var products []domain.Product
	if !c.get(ctx, key, &products) {
		return nil, false
	}
	return products, true
}

// SetProducts caches instant-search results under the key.
func (c *Cache) SetProducts(ctx context.Context, key string, products []domain.Product) {
	c.set(ctx, key, products)
}

func (c *Cache) get(ctx context.Context, key string, v any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.logger.WarnContext(ctx, "cache entry corrupt", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
