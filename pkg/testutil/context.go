package testutil

import (
	"net/http"
	"time"

	"github.com/rgckd/hc-self-service-portal/pkg/requestcontext"
)

// WithFixedTime pins the request-scoped clock, simulating what the metadata
// middleware would do. Validity-window tests depend on a deterministic "today".
func WithFixedTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithClientIP adds a client IP to the request context.
func WithClientIP(req *http.Request, ip string) *http.Request {
	return req.WithContext(requestcontext.WithClientIP(req.Context(), ip))
}
