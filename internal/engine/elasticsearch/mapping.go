package elasticsearch

import (
	"fmt"
	"strings"
)

// DefaultIndexName is the default Elasticsearch index used for product documents.
const DefaultIndexName = "products"

// buildIndexMapping returns the full JSON body for index creation: custom
// edge-ngram analyzers for prefix matching, search-as-you-type name and
// description fields, completion suggesters for autocomplete, and (when
// embeddingDims > 0) a fixed-width dense vector for semantic search.
// Changing the mapping requires full index recreation.
func buildIndexMapping(embeddingDims int) string {
	embeddingField := ""
	if embeddingDims > 0 {
		embeddingField = fmt.Sprintf(`
      "embedding":    { "type": "dense_vector", "dims": %d },`, embeddingDims)
	}

	mapping := `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "tokenizer": {
        "autocomplete_tokenizer": {
          "type": "edge_ngram",
          "min_gram": 1,
          "max_gram": 20,
          "token_chars": ["letter", "digit"]
        }
      },
      "analyzer": {
        "autocomplete_index": {
          "type": "custom",
          "tokenizer": "autocomplete_tokenizer",
          "filter": ["lowercase"]
        },
        "autocomplete_search": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase"]
        },
        "search_as_you_type_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "stop", "snowball"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id":   { "type": "keyword" },
      "name": {
        "type": "search_as_you_type",
        "analyzer": "search_as_you_type_analyzer",
        "fields": {
          "standard":     { "type": "text", "analyzer": "standard" },
          "autocomplete": { "type": "text", "analyzer": "autocomplete_index", "search_analyzer": "autocomplete_search" }
        }
      },
      "name_suggest": {
        "type": "completion",
        "analyzer": "simple",
        "preserve_separators": true,
        "preserve_position_increments": true,
        "max_input_length": 50
      },
      "description": {
        "type": "search_as_you_type",
        "analyzer": "search_as_you_type_analyzer",
        "fields": {
          "standard":     { "type": "text", "analyzer": "standard" },
          "autocomplete": { "type": "text", "analyzer": "autocomplete_index", "search_analyzer": "autocomplete_search" }
        }
      },
      "category":         { "type": "keyword" },
      "category_suggest": { "type": "completion", "analyzer": "simple" },
      "specifications":   { "type": "object" },{{EMBEDDING}}
      "price":            { "type": "float" },
      "stock":            { "type": "integer" },
      "brand":            { "type": "keyword" },
      "rating":           { "type": "float" },
      "reviews_count":    { "type": "integer" },
      "image_url":        { "type": "keyword", "index": false }
    }
  }
}`

	return strings.Replace(mapping, "{{EMBEDDING}}", embeddingField, 1)
}
