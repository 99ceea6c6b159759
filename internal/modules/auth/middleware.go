package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
)

type ctxKey struct{}

// Middleware rejects requests without a valid bearer token.
func Middleware(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
				return
			}
			claims, err := svc.Verify(r.Context(), token)
			if errors.Is(err, apperr.ErrUnauthorized) {
				respond(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
				return
			}
			if err != nil {
				log.Printf("auth: verify: %v", err)
				respond(w, http.StatusBadGateway, map[string]string{"error": "could not verify token"})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
		})
	}
}

// FromContext returns the claims stored by Middleware.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*Claims)
	return claims, ok
}
