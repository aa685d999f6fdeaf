package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kanakjewels/storefront/internal/cart"
	"github.com/kanakjewels/storefront/internal/common"
	"github.com/kanakjewels/storefront/internal/discount"
	"github.com/kanakjewels/storefront/internal/session"
	"github.com/kanakjewels/storefront/internal/shipping"
)

// Handler wires checkout to HTTP.
type Handler struct {
	Svc *Service
}

// Quote returns the payable totals for the session's cart.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	sessionID, ok := session.ID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "session required", nil)
		return
	}
	var payload struct {
		ShippingMethodID string `json:"shippingMethodId"`
		DiscountCode     string `json:"discountCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	totals, err := h.Svc.Quote(r.Context(), sessionID, payload.ShippingMethodID, strings.TrimSpace(payload.DiscountCode))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": totals})
}

// PlaceOrder submits the session's cart as an order.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	sessionID, ok := session.ID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "session required", nil)
		return
	}
	var in Input
	if err := common.DecodeValid(r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	in.DiscountCode = strings.TrimSpace(in.DiscountCode)

	result, totals, err := h.Svc.PlaceOrder(r.Context(), sessionID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"orderId": result.OrderID,
			"status":  result.Status,
			"totals":  totals,
		},
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	switch {
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_CART", err.Error(), nil)
	case errors.Is(err, cart.ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, shipping.ErrNotFound):
		common.JSONError(w, http.StatusUnprocessableEntity, "SHIPPING_METHOD_UNKNOWN", err.Error(), nil)
	case errors.Is(err, discount.ErrNotFound):
		common.JSONError(w, http.StatusUnprocessableEntity, "DISCOUNT_UNKNOWN", err.Error(), nil)
	case errors.Is(err, discount.ErrInactive),
		errors.Is(err, discount.ErrNotStarted),
		errors.Is(err, discount.ErrExpired),
		errors.Is(err, discount.ErrUsageLimitReached),
		errors.Is(err, discount.ErrMinimumOrderUnmet),
		errors.Is(err, discount.ErrCurrencyMismatch):
		common.JSONError(w, http.StatusUnprocessableEntity, "DISCOUNT_REJECTED", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
