package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sanavullashaik/salesFlow/internal/domain"
	"github.com/sanavullashaik/salesFlow/pkg/httputil"
	"github.com/sanavullashaik/salesFlow/pkg/validator"
)

// MatchRequest is the JSON request body for matching a product request
// against the catalog.
type MatchRequest struct {
	ProductName    string            `json:"product_name" validate:"required,min=1"`
	Description    string            `json:"description"`
	Specifications map[string]string `json:"specifications"`
	Quantity       int               `json:"quantity" validate:"gte=0"`
	Priority       string            `json:"priority"`
}

// Match handles POST /api/v1/match
func (h *SearchHandler) Match(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	topK := 0
	if v := r.URL.Query().Get("top_k"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil || k < 1 || k > maxSearchSize {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "top_k must be an integer between 1 and 100"},
			})
			return
		}
		topK = k
	}

	request := &domain.ProductRequest{
		ProductName:    req.ProductName,
		Description:    req.Description,
		Specifications: req.Specifications,
		Quantity:       req.Quantity,
		Priority:       req.Priority,
	}

	matches, err := h.service.Match(r.Context(), request, topK)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"request": request,
		"total":   len(matches),
		"matches": matches,
	}})
}
