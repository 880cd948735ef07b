package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

// fallbackURL is used when the configured Elasticsearch URL is malformed.
const fallbackURL = "http://localhost:9200"

// Engine is an Elasticsearch-backed implementation of the SearchEngine interface.
type Engine struct {
	client        *elasticsearch.Client
	indexName     string
	embeddingDims int
	logger        *slog.Logger
}

// esSearchResponse is the structure used to decode Elasticsearch search responses.
type esSearchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Hits []struct {
			Score  float64        `json:"_score"`
			Source domain.Product `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// esBulkResponse is the structure used to decode Elasticsearch bulk responses.
type esBulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

// esErrorResponse is used to decode Elasticsearch error responses.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// New creates a new Elasticsearch engine pointed at the given URL.
// A malformed URL falls back to http://localhost:9200. If indexName is
// empty, DefaultIndexName ("products") is used. embeddingDims declares the
// dense-vector width for semantic search; 0 disables the vector field.
// The index itself is created by EnsureIndex, not here.
func New(esURL, indexName string, embeddingDims int, logger *slog.Logger) (*Engine, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{normalizeURL(esURL)},
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	return newEngine(client, indexName, embeddingDims, logger), nil
}

// NewWithTransport creates an engine whose HTTP layer is the given
// RoundTripper. Used by tests to stub the cluster.
func NewWithTransport(rt http.RoundTripper, indexName string, embeddingDims int, logger *slog.Logger) (*Engine, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{fallbackURL},
		Transport: rt,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	return newEngine(client, indexName, embeddingDims, logger), nil
}

func newEngine(client *elasticsearch.Client, indexName string, embeddingDims int, logger *slog.Logger) *Engine {
	if indexName == "" {
		indexName = DefaultIndexName
	}
	return &Engine{
		client:        client,
		indexName:     indexName,
		embeddingDims: embeddingDims,
		logger:        logger,
	}
}

// normalizeURL rebuilds the URL as scheme://host:port, substituting the
// fallback when scheme or host is missing and defaulting the port to 9200.
func normalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Hostname() == "" {
		return fallbackURL
	}
	port := parsed.Port()
	if port == "" {
		port = "9200"
	}
	return fmt.Sprintf("%s://%s:%s", parsed.Scheme, parsed.Hostname(), port)
}

// Ping checks whether the Elasticsearch cluster is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// EnsureIndex checks whether the products index exists and creates it with
// the full mapping if not. Idempotent.
func (e *Engine) EnsureIndex(ctx context.Context) error {
	res, err := e.client.Indices.Exists(
		[]string{e.indexName},
		e.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	// Status 200 means the index exists.
	if res.StatusCode == 200 {
		e.logger.Debug("elasticsearch index already exists", "index", e.indexName)
		return nil
	}

	mapping := buildIndexMapping(e.embeddingDims)
	res, err = e.client.Indices.Create(
		e.indexName,
		e.client.Indices.Create.WithBody(strings.NewReader(mapping)),
		e.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil && errResp.Error.Type != "" {
			return fmt.Errorf("create index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("create index: unexpected status %s", res.Status())
	}

	e.logger.Info("elasticsearch index created", "index", e.indexName)
	return nil
}

// RecreateIndex deletes the products index and creates it again with the
// current mapping. Destructive: all indexed documents are lost.
func (e *Engine) RecreateIndex(ctx context.Context) error {
	res, err := e.client.Indices.Delete(
		[]string{e.indexName},
		e.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	// Ignore 404 — the index might not exist yet.
	if res.IsError() && res.StatusCode != 404 {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil && errResp.Error.Type != "" {
			return fmt.Errorf("delete index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("delete index: unexpected status %s", res.Status())
	}

	if err := e.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("recreate index: %w", err)
	}

	e.logger.Info("elasticsearch index recreated", "index", e.indexName)
	return nil
}

// Index adds or updates a single product, attaching completion-suggester
// fields derived from the name and category.
func (e *Engine) Index(ctx context.Context, product *domain.Product) error {
	if err := e.checkEmbedding(product); err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}

	data, err := json.Marshal(newDocument(product))
	if err != nil {
		return fmt.Errorf("elasticsearch index: marshal document: %w", err)
	}

	res, err := e.client.Index(
		e.indexName,
		bytes.NewReader(data),
		e.client.Index.WithDocumentID(product.ID),
		e.client.Index.WithRefresh("true"),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil && errResp.Error.Type != "" {
			return fmt.Errorf("elasticsearch index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch index: unexpected status %s", res.Status())
	}

	e.logger.Debug("indexed product", "id", product.ID, "name", product.Name)
	return nil
}

// BulkIndex adds or updates multiple products using the bulk NDJSON API.
func (e *Engine) BulkIndex(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for i := range products {
		if err := e.checkEmbedding(&products[i]); err != nil {
			return fmt.Errorf("elasticsearch bulk index: %w", err)
		}

		action := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": e.indexName,
				"_id":    products[i].ID,
			},
		}
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return fmt.Errorf("elasticsearch bulk index: encode action: %w", err)
		}
		if err := json.NewEncoder(&buf).Encode(newDocument(&products[i])); err != nil {
			return fmt.Errorf("elasticsearch bulk index: encode document: %w", err)
		}
	}

	res, err := e.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		e.client.Bulk.WithIndex(e.indexName),
		e.client.Bulk.WithRefresh("true"),
		e.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch bulk index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil && errResp.Error.Type != "" {
			return fmt.Errorf("elasticsearch bulk index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch bulk index: unexpected status %s", res.Status())
	}

	var bulkResp esBulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return fmt.Errorf("elasticsearch bulk index: decode response: %w", err)
	}

	if bulkResp.Errors {
		var errMsgs []string
		for _, item := range bulkResp.Items {
			if item.Index.Error.Type != "" {
				errMsgs = append(errMsgs, fmt.Sprintf("id=%s: %s: %s", item.Index.ID, item.Index.Error.Type, item.Index.Error.Reason))
			}
		}
		return fmt.Errorf("elasticsearch bulk index: partial errors: %s", strings.Join(errMsgs, "; "))
	}

	e.logger.Info("bulk indexed products", "count", len(products))
	return nil
}

// Delete removes a product from the index by its ID.
// A 404 is ignored — the document might not exist.
func (e *Engine) Delete(ctx context.Context, id string) error {
	res, err := e.client.Delete(
		e.indexName,
		id,
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil && errResp.Error.Type != "" {
			return fmt.Errorf("elasticsearch delete: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch delete: unexpected status %s", res.Status())
	}

	e.logger.Debug("deleted product", "id", id)
	return nil
}

// checkEmbedding enforces that an attached embedding matches the mapping's
// declared dimension. A write with a mismatched vector would be rejected by
// the cluster anyway; failing early gives a clearer error.
func (e *Engine) checkEmbedding(product *domain.Product) error {
	if len(product.Embedding) == 0 {
		return nil
	}
	if e.embeddingDims == 0 {
		return fmt.Errorf("product %s carries an embedding but the index has no vector field", product.ID)
	}
	if len(product.Embedding) != e.embeddingDims {
		return fmt.Errorf("product %s embedding has %d dimensions, index expects %d",
			product.ID, len(product.Embedding), e.embeddingDims)
	}
	return nil
}
