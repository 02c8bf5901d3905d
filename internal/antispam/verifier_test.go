package antispam

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgckd/hc-self-service-portal/internal/platform/config"
	dErrors "github.com/rgckd/hc-self-service-portal/pkg/domain-errors"
)

func newVerifier(t *testing.T, handler http.HandlerFunc) *HTTPVerifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPVerifier(config.AntiSpam{
		Endpoint: srv.URL,
		Secret:   "test-secret",
		MinScore: 0.5,
		Timeout:  2 * time.Second,
	}, slog.Default())
}

func scoringServer(success bool, score float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"success":%t,"score":%g}`, success, score)
	}
}

func TestVerifyPassesAboveThreshold(t *testing.T) {
	v := newVerifier(t, scoringServer(true, 0.9))
	require.NoError(t, v.Verify(context.Background(), "token"))
}

func TestVerifySendsTokenAndSecret(t *testing.T) {
	var gotSecret, gotToken string
	v := newVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotSecret = r.FormValue("secret")
		gotToken = r.FormValue("response")
		scoringServer(true, 0.9)(w, r)
	})

	require.NoError(t, v.Verify(context.Background(), "the-token"))
	assert.Equal(t, "test-secret", gotSecret)
	assert.Equal(t, "the-token", gotToken)
}

func TestVerifyFailsBelowThreshold(t *testing.T) {
	v := newVerifier(t, scoringServer(true, 0.2))
	err := v.Verify(context.Background(), "token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAntiSpamFailed))
}

func TestVerifyFailsOnRejectedToken(t *testing.T) {
	v := newVerifier(t, scoringServer(false, 0.9))
	err := v.Verify(context.Background(), "token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAntiSpamFailed))
}

func TestVerifyFailsClosedWhenScorerUnreachable(t *testing.T) {
	v := newVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	err := v.Verify(context.Background(), "token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAntiSpamFailed))
}

func TestVerifyMissingToken(t *testing.T) {
	v := newVerifier(t, scoringServer(true, 0.9))
	err := v.Verify(context.Background(), "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAntiSpamFailed))
}
