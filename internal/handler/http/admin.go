package http

import (
	"net/http"

	"github.com/sanavullashaik/salesFlow/pkg/httputil"
)

// RecreateIndex handles POST /api/v1/admin/index/recreate
func (h *SearchHandler) RecreateIndex(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RecreateIndex(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"status": "index recreated",
	}})
}

// LoadSampleData handles POST /api/v1/admin/data/load-sample
func (h *SearchHandler) LoadSampleData(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.LoadSampleData(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"indexed": count,
		"status":  "sample data loaded",
	}})
}
