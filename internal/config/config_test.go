package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8010, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:9200", cfg.ElasticsearchURL)
	assert.Equal(t, "products", cfg.ElasticsearchIndex)
	assert.Equal(t, "elasticsearch", cfg.SearchEngine)
	assert.Equal(t, 768, cfg.EmbeddingDimensions)
	assert.Equal(t, "INBOX", cfg.EmailMailbox)
	assert.False(t, cfg.LLMEnabled())
	assert.False(t, cfg.EmbeddingEnabled())
	assert.False(t, cfg.EmailEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SEARCH_HTTP_PORT", "8080")
	t.Setenv("ELASTICSEARCH_INDEX", "catalog")
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("EMBEDDING_API_KEY", "emb_test")
	t.Setenv("EMAIL_SERVER", "imap.example.com:993")
	t.Setenv("EMAIL_USER", "sales@example.com")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "catalog", cfg.ElasticsearchIndex)
	assert.True(t, cfg.LLMEnabled())
	assert.True(t, cfg.EmbeddingEnabled())
	assert.True(t, cfg.EmailEnabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("SEARCH_HTTP_PORT", "0")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidSearchEngine(t *testing.T) {
	t.Setenv("SEARCH_ENGINE", "solr")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid search engine")
}

func TestLoad_InvalidEmbeddingDimensions(t *testing.T) {
	t.Setenv("EMBEDDING_DIMENSIONS", "-1")

	cfg, err := Load()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid embedding dimensions")
}
