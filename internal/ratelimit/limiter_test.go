package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgckd/hc-self-service-portal/pkg/requestcontext"
)

func TestMemoryStoreWindowReset(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := store.Incr(ctx, "ip1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	current = current.Add(61 * time.Second)
	n, err := store.Incr(ctx, "ip1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryStoreKeysIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Incr(ctx, "ip1", time.Minute)
	require.NoError(t, err)
	n, err := store.Incr(ctx, "ip2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLimiterAllowAndReject(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore(), 2, time.Minute, slog.Default())
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "ip1"))
	assert.True(t, limiter.Allow(ctx, "ip1"))
	assert.False(t, limiter.Allow(ctx, "ip1"))
	assert.True(t, limiter.Allow(ctx, "ip2"))
}

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("store down")
}

func TestLimiterFailsOpen(t *testing.T) {
	limiter := NewLimiter(failingStore{}, 1, time.Minute, slog.Default())
	assert.True(t, limiter.Allow(context.Background(), "ip1"))
	assert.True(t, limiter.Allow(context.Background(), "ip1"))
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore(), 1, time.Minute, slog.Default())
	handler := Middleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/programs", nil)
		req = req.WithContext(requestcontext.WithClientIP(req.Context(), "203.0.113.9"))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, do().Code)
	rr := do()
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":false`)
}
