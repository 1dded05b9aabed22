package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Fras28/dynnamo-cart/pkg/httputil"
	"github.com/Fras28/dynnamo-cart/pkg/logger"
)

type contextKey string

const sessionContextKey contextKey = "cart_session_id"

// sessionHeader carries the shopper's cart session. The storefront generates
// it client-side and sends it on every cart call.
const sessionHeader = "X-Session-ID"

const maxSessionIDLength = 128

// RequireSession rejects requests without a usable X-Session-ID header and
// stores the session ID in the request context.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
		if sessionID == "" || len(sessionID) > maxSessionIDLength {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "MISSING_SESSION",
					Message: "a valid " + sessionHeader + " header is required",
				},
			})
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sessionID)
		ctx = logger.WithSessionID(ctx, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the session ID stored by RequireSession.
func SessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionContextKey).(string); ok {
		return id
	}
	return ""
}

// bearerToken extracts the token from an Authorization: Bearer header.
// Returns "" when the header is absent or malformed.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
