package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const sessionIDKey ctxKey = "session/id"

// HeaderName carries the session identifier on API requests.
const HeaderName = "X-Session-ID"

// CookieName is the fallback carrier for browser clients.
const CookieName = "storefront_session"

// WithID stores the session identifier on the provided context.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// ID extracts the session identifier from the context if present.
func ID(ctx context.Context) (string, bool) {
	v := ctx.Value(sessionIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Middleware resolves the caller's session identifier from the X-Session-ID
// header or the session cookie, minting a new one when neither is present.
// The resolved identifier is echoed back on both carriers so clients can
// persist it.
func Middleware(cookieTTL time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderName))
			if id == "" {
				if c, err := r.Cookie(CookieName); err == nil {
					id = strings.TrimSpace(c.Value)
				}
			}
			if id == "" || uuid.Validate(id) != nil {
				id = uuid.NewString()
			}

			w.Header().Set(HeaderName, id)
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cookieTTL / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}
