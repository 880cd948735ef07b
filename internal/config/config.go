package config

import (
	"fmt"

	pkgconfig "github.com/sanavullashaik/salesFlow/pkg/config"
)

// Config holds all configuration for the search service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"SEARCH_HTTP_PORT" envDefault:"8010"`

	// Elasticsearch
	ElasticsearchURL   string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	ElasticsearchIndex string `env:"ELASTICSEARCH_INDEX" envDefault:"products"`

	// Search engine selection (elasticsearch or memory)
	SearchEngine string `env:"SEARCH_ENGINE" envDefault:"elasticsearch"`

	// Groq LLM API. Reranking, request matching and extraction stay disabled
	// when the key is empty.
	GroqAPIKey      string `env:"GROQ_API_KEY"`
	GroqBaseURL     string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GroqModel       string `env:"GROQ_MODEL" envDefault:"llama-3.1-8b-instant"`
	GroqVisionModel string `env:"GROQ_VISION_MODEL" envDefault:"llama-3.2-90b-vision-preview"`

	// Embedding API (OpenAI-compatible). Vector search and matching stay
	// disabled when the key is empty.
	EmbeddingAPIKey     string `env:"EMBEDDING_API_KEY"`
	EmbeddingBaseURL    string `env:"EMBEDDING_BASE_URL"`
	EmbeddingModel      string `env:"EMBEDDING_MODEL" envDefault:"sentence-transformers/all-mpnet-base-v2"`
	EmbeddingDimensions int    `env:"EMBEDDING_DIMENSIONS" envDefault:"768"`

	// IMAP mailbox for product request emails. Polling stays disabled when
	// the server is empty.
	EmailServer   string `env:"EMAIL_SERVER"`
	EmailUser     string `env:"EMAIL_USER"`
	EmailPassword string `env:"EMAIL_PASSWORD"`
	EmailMailbox  string `env:"EMAIL_MAILBOX" envDefault:"INBOX"`

	// Kafka product event topics; consumption stays disabled when empty.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"search-indexer"`

	// Redis query cache; caching stays disabled when empty.
	RedisAddr string `env:"REDIS_ADDR"`

	// Tracing
	TracingEnabled  bool   `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string `env:"TRACING_ENDPOINT" envDefault:"localhost:4317"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load search config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.SearchEngine {
	case "elasticsearch", "memory":
	default:
		return fmt.Errorf("invalid search engine: %q", c.SearchEngine)
	}
	if c.EmbeddingDimensions < 1 {
		return fmt.Errorf("invalid embedding dimensions: %d", c.EmbeddingDimensions)
	}
	return nil
}

// LLMEnabled reports whether Groq-backed features are configured.
func (c *Config) LLMEnabled() bool {
	return c.GroqAPIKey != ""
}

// EmbeddingEnabled reports whether the embedding API is configured.
func (c *Config) EmbeddingEnabled() bool {
	return c.EmbeddingAPIKey != ""
}

// EmailEnabled reports whether the IMAP mailbox is configured.
func (c *Config) EmailEnabled() bool {
	return c.EmailServer != "" && c.EmailUser != ""
}
