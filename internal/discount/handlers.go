package discount

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kanakjewels/storefront/internal/common"
)

// Handler exposes discount validation over HTTP.
type Handler struct {
	Svc *Service
}

// Validate checks a code against a prospective order amount and returns the
// computed discount.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount service not configured", nil)
		return
	}
	var payload struct {
		Code        string          `json:"code"`
		OrderAmount decimal.Decimal `json:"orderAmount"`
		Currency    string          `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.Code = strings.TrimSpace(payload.Code)
	if payload.Code == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code is required", nil)
		return
	}
	app, err := h.Svc.Apply(r.Context(), payload.Code, payload.OrderAmount, payload.Currency)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": app})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "discount not found", nil)
	case errors.Is(err, ErrInactive),
		errors.Is(err, ErrNotStarted),
		errors.Is(err, ErrExpired),
		errors.Is(err, ErrUsageLimitReached),
		errors.Is(err, ErrMinimumOrderUnmet),
		errors.Is(err, ErrCurrencyMismatch),
		errors.Is(err, ErrUnknownKind):
		common.JSONError(w, http.StatusUnprocessableEntity, "DISCOUNT_REJECTED", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to apply discount", nil)
	}
}
