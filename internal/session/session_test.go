package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func runMiddleware(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var got string
	handler := Middleware(time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := ID(r.Context())
		require.True(t, ok)
		got = id
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return got, rec
}

func TestMiddlewareMintsSessionID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	id, rec := runMiddleware(t, req)

	require.NoError(t, uuid.Validate(id))
	require.Equal(t, id, rec.Header().Get(HeaderName))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, CookieName, cookies[0].Name)
	require.Equal(t, id, cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
}

func TestMiddlewarePrefersHeader(t *testing.T) {
	want := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(HeaderName, want)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: uuid.NewString()})

	id, _ := runMiddleware(t, req)
	require.Equal(t, want, id)
}

func TestMiddlewareFallsBackToCookie(t *testing.T) {
	want := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: want})

	id, _ := runMiddleware(t, req)
	require.Equal(t, want, id)
}

func TestMiddlewareRejectsMalformedID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(HeaderName, "not-a-uuid")

	id, _ := runMiddleware(t, req)
	require.NotEqual(t, "not-a-uuid", id)
	require.NoError(t, uuid.Validate(id))
}

func TestIDAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	_, ok := ID(req.Context())
	require.False(t, ok)
}
