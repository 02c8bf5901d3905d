package ratelimit

import (
	"net/http"

	"github.com/rgckd/hc-self-service-portal/pkg/requestcontext"
)

// Middleware rejects requests over the limit with the uniform failure
// envelope. The key is the client IP stamped by the metadata middleware.
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := requestcontext.ClientIP(r.Context())
			if key == "" {
				key = r.RemoteAddr
			}
			if !limiter.Allow(r.Context(), key) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success":false,"message":"too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
