package mid

import (
	"net/http"

	"github.com/Fayuquero09/cortex-automotriz/pkg/resilience"
)

// Throttle returns middleware that rejects requests with 429 when the
// shared limiter has no tokens left.
func Throttle(l *resilience.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
