package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/sanavullashaik/salesFlow/internal/service"
	"github.com/sanavullashaik/salesFlow/pkg/httputil"
)

const (
	defaultSearchSize  = 10
	defaultSuggestSize = 5
	maxSearchSize      = 100
)

// SearchHandler handles HTTP requests for search endpoints.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger,
	}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "q is required"},
		})
		return
	}

	size, ok := parseSize(w, r, defaultSearchSize)
	if !ok {
		return
	}

	useRerank := false
	if v := r.URL.Query().Get("use_groq_rerank"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "use_groq_rerank must be a boolean"},
			})
			return
		}
		useRerank = b
	}

	results, err := h.service.Search(r.Context(), query, size, useRerank)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"query":   query,
		"total":   len(results),
		"results": results,
	}})
}

// InstantSearch handles GET /api/v1/search/instant
func (h *SearchHandler) InstantSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
			"query":   "",
			"total":   0,
			"results": []any{},
		}})
		return
	}

	size, ok := parseSize(w, r, defaultSuggestSize)
	if !ok {
		return
	}

	results, err := h.service.InstantSearch(r.Context(), query, size)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"query":   query,
		"total":   len(results),
		"results": results,
	}})
}

// Autocomplete handles GET /api/v1/search/autocomplete
func (h *SearchHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	prefix := strings.TrimSpace(r.URL.Query().Get("q"))
	if prefix == "" {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
			"suggestions": []any{},
		}})
		return
	}

	size, ok := parseSize(w, r, defaultSuggestSize)
	if !ok {
		return
	}

	suggestions, err := h.service.Autocomplete(r.Context(), prefix, size)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"suggestions": suggestions,
	}})
}

// parseSize reads the size query parameter, enforcing bounds. It writes the
// error response itself and returns ok=false when the value is invalid.
func parseSize(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	v := r.URL.Query().Get("size")
	if v == "" {
		return fallback, true
	}
	size, err := strconv.Atoi(v)
	if err != nil || size < 1 || size > maxSearchSize {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "size must be an integer between 1 and 100"},
		})
		return 0, false
	}
	return size, true
}
