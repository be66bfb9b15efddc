package clientip

import (
	"context"
	"net/http"
)

type ctxKey struct{}

// WithIP stores the client address in the context.
func WithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKey{}, ip)
}

// FromContext returns the client address stored by Middleware, or "".
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ctxKey{}).(string)
	return ip
}

// Middleware resolves the client address once per request and stores it in
// the context for downstream handlers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithIP(r.Context(), FromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
