package resilience_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kanakjewels/storefront/internal/resilience"
)

func newResilientClient(maxAttempts int) resilience.HTTPClient {
	return resilience.HTTPClient{
		Client:      &http.Client{},
		Breaker:     resilience.NewBreaker(10, 0.9, time.Second).WithTarget("platform"),
		MaxAttempts: maxAttempts,
		BaseBackoff: time.Millisecond,
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "platform warming up", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/products", nil)
	require.NoError(t, err)

	resp, err := newResilientClient(3).Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoSurfacesFinalServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "platform down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/shipping-methods", nil)
	require.NoError(t, err)

	// Out of retries the last response comes back so callers can read the
	// status and body instead of a bare error.
	resp, err := newResilientClient(2).Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestDoRejectsWhenBreakerOpen(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	breaker := resilience.NewBreaker(1, 0.5, time.Minute).WithTarget("platform")
	ctx := context.Background()
	breaker.Report(ctx, false)

	client := resilience.HTTPClient{Client: &http.Client{}, Breaker: breaker, MaxAttempts: 2}
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/products", nil)
	require.NoError(t, err)

	_, err = client.Do(ctx, req)
	require.ErrorIs(t, err, resilience.ErrOpenCircuit)
	require.Zero(t, atomic.LoadInt32(&calls), "no request reaches a platform behind an open breaker")
}
