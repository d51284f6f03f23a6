package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/backend"
)

type sessionKeyCtx struct{}

// BearerAuthMiddleware extracts the bearer credential supplied by the auth
// collaborator and forwards it untouched towards the backend. The token also
// keys the checkout session: one cashier terminal, one session.
func BearerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer credential")
			return
		}

		ctx := backend.WithToken(r.Context(), token)
		ctx = context.WithValue(ctx, sessionKeyCtx{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionKeyFromContext(ctx context.Context) string {
	if key, ok := ctx.Value(sessionKeyCtx{}).(string); ok {
		return key
	}
	return ""
}

// RequestIDMiddleware echoes the caller's request ID on the response,
// minting one when the header is absent. The canonical in-context ID is
// chi's middleware.RequestID; this only surfaces it to the client.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}
