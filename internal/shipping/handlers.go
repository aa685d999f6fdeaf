package shipping

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kanakjewels/storefront/internal/common"
)

// Handler exposes shipping methods over HTTP.
type Handler struct {
	Client Client
}

// List returns all available shipping methods.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Client == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "shipping provider not configured", nil)
		return
	}
	methods, err := h.Client.Methods(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusBadGateway, "SHIPPING_ERROR", "failed to fetch shipping methods", nil)
		return
	}
	if methods == nil {
		methods = []Method{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": methods})
}

// Get returns a single shipping method.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Client == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "shipping provider not configured", nil)
		return
	}
	method, err := h.Client.Method(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "shipping method not found", nil)
			return
		}
		common.JSONError(w, http.StatusBadGateway, "SHIPPING_ERROR", "failed to fetch shipping method", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": method})
}
