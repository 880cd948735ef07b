package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanavullashaik/salesFlow/internal/service"
	"github.com/sanavullashaik/salesFlow/pkg/health"
	"github.com/sanavullashaik/salesFlow/pkg/middleware"
)

// NewRouter creates a chi router with all search service routes registered.
func NewRouter(
	searchService *service.SearchService,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("search"))
	r.Use(middleware.Tracing("search-service"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	h := NewSearchHandler(searchService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/search", func(r chi.Router) {
			r.Get("/", h.Search)

			// Instant and autocomplete responses are stable for seconds
			// at a time; let intermediaries absorb keystroke repeats.
			r.Group(func(r chi.Router) {
				r.Use(middleware.CacheControl(30))
				r.Get("/instant", h.InstantSearch)
				r.Get("/autocomplete", h.Autocomplete)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/", h.IndexProduct)
			r.Post("/bulk", h.BulkIndex)
			r.Delete("/{id}", h.DeleteProduct)
		})

		r.With(ContentTypeJSON).Post("/match", h.Match)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/index/recreate", h.RecreateIndex)
			r.Post("/data/load-sample", h.LoadSampleData)
		})

		r.Get("/emails/check", h.CheckEmails)
		r.Post("/images/process", h.ProcessImage)
	})

	return r
}

// ContentTypeJSON rejects requests with a body that do not declare a JSON
// content type.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength != 0 {
			ct := r.Header.Get("Content-Type")
			if ct != "" && ct != "application/json" && !hasJSONPrefix(ct) {
				http.Error(w, `{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`, http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func hasJSONPrefix(ct string) bool {
	const prefix = "application/json;"
	return len(ct) >= len(prefix) && ct[:len(prefix)] == prefix
}
