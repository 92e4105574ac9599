package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds every downstream call with a context deadline. Handlers and
// repositories observe it through ctx; a blown deadline surfaces as TIMEOUT.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
