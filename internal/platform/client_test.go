package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kanakjewels/storefront/internal/catalog"
	"github.com/kanakjewels/storefront/internal/checkout"
	"github.com/kanakjewels/storefront/internal/discount"
	"github.com/kanakjewels/storefront/internal/pricing"
	"github.com/kanakjewels/storefront/internal/shipping"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-token", 5*time.Second)
}

func TestProductByID(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products/ring-1", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": catalog.Product{
				ID:    "ring-1",
				Name:  "Gold Ring",
				Price: pricing.NewMoney("INR", decimal.RequireFromString("1339")),
			},
		})
	})

	p, err := client.ProductByID(context.Background(), "ring-1")
	require.NoError(t, err)
	require.Equal(t, "Gold Ring", p.Name)
	require.True(t, p.Price.Amount.Equal(decimal.RequireFromString("1339")))
}

func TestProductByIDNotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := client.ProductByID(context.Background(), "missing")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestProductsPassesQuery(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "ring", r.URL.Query().Get("q"))
		require.Equal(t, "rings", r.URL.Query().Get("category"))
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "10", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  []catalog.Product{{ID: "ring-1"}},
			"total": 37,
		})
	})

	items, total, err := client.Products(context.Background(), catalog.ListQuery{
		Search: "ring", Category: "rings", Page: 2, PerPage: 10,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 37, total)
}

func TestDiscountByCode(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/discounts/SPRING10", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": discount.Discount{
				Code:     "SPRING10",
				Kind:     discount.KindPercentage,
				Value:    decimal.RequireFromString("10"),
				IsActive: true,
			},
		})
	})

	d, err := client.DiscountByCode(context.Background(), "SPRING10")
	require.NoError(t, err)
	require.Equal(t, discount.KindPercentage, d.Kind)
	require.True(t, d.IsActive)
}

func TestDiscountNotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := client.DiscountByCode(context.Background(), "NOPE")
	require.ErrorIs(t, err, discount.ErrNotFound)
}

func TestShippingMethods(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/shipping-methods":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []shipping.Method{
					{ID: "standard", Name: "Standard", BaseCost: pricing.NewMoney("INR", decimal.RequireFromString("50"))},
					{ID: "express", Name: "Express", IsExpress: true, BaseCost: pricing.NewMoney("INR", decimal.RequireFromString("150"))},
				},
			})
		case "/api/shipping-methods/express":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": shipping.Method{ID: "express", Name: "Express", IsExpress: true},
			})
		default:
			http.NotFound(w, r)
		}
	})

	methods, err := client.Methods(context.Background())
	require.NoError(t, err)
	require.Len(t, methods, 2)

	m, err := client.Method(context.Background(), "express")
	require.NoError(t, err)
	require.True(t, m.IsExpress)

	_, err = client.Method(context.Background(), "drone")
	require.ErrorIs(t, err, shipping.ErrNotFound)
}

func TestSubmitOrder(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/orders", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req checkout.OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "card-1", req.PaymentMethodID)
		require.Len(t, req.Items, 1)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": checkout.OrderResult{OrderID: "order-9", Status: "confirmed"},
		})
	})

	result, err := client.SubmitOrder(context.Background(), checkout.OrderRequest{
		PaymentMethodID:  "card-1",
		ShippingMethodID: "standard",
		Items: []checkout.OrderItem{
			{ProductID: "ring-1", Quantity: 2, UnitPrice: pricing.NewMoney("INR", decimal.RequireFromString("2678"))},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "order-9", result.OrderID)
}

func TestReadRetriesTransientUpstreamFailure(t *testing.T) {
	var calls int32
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": catalog.Product{ID: "ring-1"},
		})
	})

	p, err := client.ProductByID(context.Background(), "ring-1")
	require.NoError(t, err)
	require.Equal(t, "ring-1", p.ID)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSubmitOrderUpstreamError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	_, err := client.SubmitOrder(context.Background(), checkout.OrderRequest{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestPing(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, client.Ping(context.Background()))
}
