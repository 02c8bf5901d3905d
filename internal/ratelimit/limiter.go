// Package ratelimit bounds requests per client IP on the public routes with
// a fixed-window counter. The store is pluggable: in-memory by default,
// redis when the portal runs with more than one replica.
package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Store counts hits per key within a window. Incr returns the count after
// incrementing, starting a new window when the previous one elapsed.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter is the fixed-window decision point.
type Limiter struct {
	store  Store
	limit  int64
	window time.Duration
	logger *slog.Logger
}

func NewLimiter(store Store, limit int, window time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{store: store, limit: int64(limit), window: window, logger: logger}
}

// Allow reports whether the key may proceed. A store failure fails open:
// losing rate limiting briefly is preferable to refusing all traffic.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	n, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		l.logger.Warn("rate limit store failure, allowing request", "error", err)
		return true
	}
	return n <= l.limit
}
