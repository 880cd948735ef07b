package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sanavullashaik/salesFlow/pkg/health"
	"github.com/sanavullashaik/salesFlow/pkg/httpclient"
	pkgkafka "github.com/sanavullashaik/salesFlow/pkg/kafka"
	"github.com/sanavullashaik/salesFlow/pkg/middleware"

	"github.com/sanavullashaik/salesFlow/internal/cache"
	"github.com/sanavullashaik/salesFlow/internal/config"
	"github.com/sanavullashaik/salesFlow/internal/embed"
	"github.com/sanavullashaik/salesFlow/internal/engine"
	esengine "github.com/sanavullashaik/salesFlow/internal/engine/elasticsearch"
	"github.com/sanavullashaik/salesFlow/internal/engine/memory"
	"github.com/sanavullashaik/salesFlow/internal/event"
	handler "github.com/sanavullashaik/salesFlow/internal/handler/http"
	"github.com/sanavullashaik/salesFlow/internal/llm"
	"github.com/sanavullashaik/salesFlow/internal/mail"
	"github.com/sanavullashaik/salesFlow/internal/matcher"
	"github.com/sanavullashaik/salesFlow/internal/rerank"
	"github.com/sanavullashaik/salesFlow/internal/service"
)

const (
	indexInitAttempts = 5
	indexInitDelay    = 5 * time.Second
)

// App wires together all dependencies and runs the search service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     engine.SearchEngine
	queryCache *cache.Cache
	consumers  []*pkgkafka.Consumer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
// Optional features (reranking, vector matching, email and image extraction,
// caching, event consumption) are wired only when configured.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Search engine.
	var eng engine.SearchEngine
	var esEng *esengine.Engine
	switch cfg.SearchEngine {
	case "elasticsearch":
		var err error
		esEng, err = esengine.New(cfg.ElasticsearchURL, cfg.ElasticsearchIndex, cfg.EmbeddingDimensions, logger)
		if err != nil {
			return nil, fmt.Errorf("init elasticsearch engine: %w", err)
		}
		eng = esEng
		logger.Info("elasticsearch search engine initialized",
			slog.String("url", cfg.ElasticsearchURL),
			slog.String("index", cfg.ElasticsearchIndex),
		)
	default:
		eng = memory.New()
		logger.Info("in-memory search engine initialized")
	}

	deps := service.Deps{Engine: eng}

	// Groq LLM client behind a circuit breaker, shared by reranking,
	// matching and extraction.
	var llmClient *llm.Client
	if cfg.LLMEnabled() {
		breaker := httpclient.NewBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("groq"),
			logger,
		)
		llmClient = llm.New(llm.Config{
			APIKey:      cfg.GroqAPIKey,
			BaseURL:     cfg.GroqBaseURL,
			Model:       cfg.GroqModel,
			VisionModel: cfg.GroqVisionModel,
			HTTPClient:  breaker,
		}, logger)
		deps.Images = llmClient
		logger.Info("groq client initialized", slog.String("model", cfg.GroqModel))
	}

	var scorer rerank.Scorer
	if llmClient != nil {
		scorer = llmClient
	}
	deps.Reranker = rerank.New(scorer, logger)

	// Embedding API for dense vectors.
	var embedder *embed.Embedder
	if cfg.EmbeddingEnabled() {
		breaker := httpclient.NewBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("embeddings"),
			logger,
		)
		embedder = embed.New(embed.Config{
			APIKey:     cfg.EmbeddingAPIKey,
			BaseURL:    cfg.EmbeddingBaseURL,
			Model:      cfg.EmbeddingModel,
			Dimensions: cfg.EmbeddingDimensions,
			HTTPClient: breaker,
		}, logger)
		deps.Embedder = embedder
		logger.Info("embedding client initialized", slog.String("model", cfg.EmbeddingModel))
	}

	// The matching pipeline needs both embeddings and the LLM scorer.
	if embedder != nil && llmClient != nil {
		deps.Matcher = matcher.New(embedder, eng, llmClient, logger)
	}

	// IMAP mailbox polling needs the LLM extractor.
	if cfg.EmailEnabled() && llmClient != nil {
		reader := mail.NewIMAPReader(mail.IMAPConfig{
			Server:   cfg.EmailServer,
			Username: cfg.EmailUser,
			Password: cfg.EmailPassword,
			Mailbox:  cfg.EmailMailbox,
		}, logger)
		deps.Mail = mail.NewProcessor(reader, llmClient, logger)
		logger.Info("email processor initialized", slog.String("server", cfg.EmailServer))
	}

	// Redis query cache.
	var queryCache *cache.Cache
	if cfg.RedisAddr != "" {
		queryCache = cache.New(cfg.RedisAddr, cache.DefaultTTL, logger)
		deps.Cache = queryCache
		logger.Info("redis query cache initialized", slog.String("addr", cfg.RedisAddr))
	}

	searchService := service.New(deps, logger)

	// Kafka consumers for product events.
	var consumers []*pkgkafka.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		eventConsumer := event.NewConsumer(searchService, logger)
		for _, topic := range event.Topics() {
			consumerCfg := pkgkafka.ConsumerConfig{
				Brokers:  cfg.KafkaBrokers,
				GroupID:  cfg.KafkaGroupID,
				Topic:    topic,
				MinBytes: 1,
				MaxBytes: 10e6, // 10 MB
			}
			consumers = append(consumers, pkgkafka.NewConsumer(consumerCfg, eventConsumer.Handle, logger))
		}
		logger.Info("kafka consumers initialized",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.Int("topic_count", len(consumers)),
		)
	}

	// Health checks.
	healthHandler := health.NewHandler()
	if esEng != nil {
		healthHandler.Register("elasticsearch", esEng.Ping)
	}
	if len(cfg.KafkaBrokers) > 0 {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
		})
	}
	if queryCache != nil {
		healthHandler.Register("redis", queryCache.Ping)
	}
	if llmClient != nil {
		healthHandler.Register("groq", llmClient.Ping)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(searchService, healthHandler, corsCfg, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		engine:     eng,
		queryCache: queryCache,
		consumers:  consumers,
		httpServer: httpServer,
	}, nil
}

// Run ensures the index exists, then starts the HTTP server and Kafka
// consumers, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	if err := a.ensureIndex(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1+len(a.consumers))

	for _, c := range a.consumers {
		c := c
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// ensureIndex creates the product index, retrying while the search backend
// comes up.
func (a *App) ensureIndex(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= indexInitAttempts; attempt++ {
		if err = a.engine.EnsureIndex(ctx); err == nil {
			return nil
		}
		a.logger.Warn("index initialization failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		if attempt == indexInitAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(indexInitDelay):
		}
	}
	return fmt.Errorf("ensure index after %d attempts: %w", indexInitAttempts, err)
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.queryCache != nil {
		if err := a.queryCache.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
