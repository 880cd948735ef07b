package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sanavullashaik/salesFlow/internal/domain"
	"github.com/sanavullashaik/salesFlow/pkg/httputil"
	"github.com/sanavullashaik/salesFlow/pkg/validator"
)

// IndexProductRequest is the JSON request body for indexing a product.
type IndexProductRequest struct {
	ID             string            `json:"id"`
	Name           string            `json:"name" validate:"required,min=1"`
	Description    string            `json:"description"`
	Category       string            `json:"category"`
	Price          float64           `json:"price" validate:"gte=0"`
	Stock          int               `json:"stock" validate:"gte=0"`
	Specifications map[string]string `json:"specifications"`
	Brand          string            `json:"brand"`
	Rating         float64           `json:"rating" validate:"gte=0,lte=5"`
	ReviewsCount   int               `json:"reviews_count" validate:"gte=0"`
	ImageURL       string            `json:"image_url"`
}

// BulkIndexRequest is the JSON request body for bulk indexing products.
type BulkIndexRequest struct {
	Products []IndexProductRequest `json:"products" validate:"required,min=1,max=500,dive"`
}

func (req *IndexProductRequest) toDomain() domain.Product {
	return domain.Product{
		ID:             req.ID,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Price:          req.Price,
		Stock:          req.Stock,
		Specifications: req.Specifications,
		Brand:          req.Brand,
		Rating:         req.Rating,
		ReviewsCount:   req.ReviewsCount,
		ImageURL:       req.ImageURL,
	}
}

// IndexProduct handles POST /api/v1/products
func (h *SearchHandler) IndexProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req IndexProductRequest
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

	product := req.toDomain()
	if err := h.service.IndexProduct(r.Context(), &product); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]string{
		"id":     product.ID,
		"status": "indexed",
	}})
}

// BulkIndex handles POST /api/v1/products/bulk
func (h *SearchHandler) BulkIndex(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20) // 10MB limit for bulk endpoint

	var req BulkIndexRequest
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

	products := make([]domain.Product, 0, len(req.Products))
	for i := range req.Products {
		products = append(products, req.Products[i].toDomain())
	}

	if err := h.service.BulkIndexProducts(r.Context(), products); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"indexed": len(products),
		"status":  "ok",
	}})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *SearchHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "product id is required"},
		})
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"id":     id,
		"status": "deleted",
	}})
}
