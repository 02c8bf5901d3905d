// Package antispam gates submissions through an external scoring
// collaborator. The check runs strictly before submission validation; a
// failed score short-circuits without reaching the output log.
package antispam

import (
	"context"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/rgckd/hc-self-service-portal/internal/platform/config"
	dErrors "github.com/rgckd/hc-self-service-portal/pkg/domain-errors"
)

// Verifier checks an anti-spam token. A nil return means the submission may
// proceed; any error carries CodeAntiSpamFailed and a deliberately vague
// message for the client.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// HTTPVerifier calls the external scoring service and applies the configured
// minimum confidence. An unreachable scorer fails closed: no score, no
// submission.
type HTTPVerifier struct {
	client   *resty.Client
	endpoint string
	secret   string
	minScore float64
	logger   *slog.Logger
}

func NewHTTPVerifier(cfg config.AntiSpam, logger *slog.Logger) *HTTPVerifier {
	return &HTTPVerifier{
		client:   resty.New().SetTimeout(cfg.Timeout),
		endpoint: cfg.Endpoint,
		secret:   cfg.Secret,
		minScore: cfg.MinScore,
		logger:   logger,
	}
}

type scoreResponse struct {
	Success bool     `json:"success"`
	Score   float64  `json:"score"`
	Errors  []string `json:"error-codes"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return dErrors.New(dErrors.CodeAntiSpamFailed, "missing anti-spam token")
	}

	var result scoreResponse
	resp, err := v.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"secret":   v.secret,
			"response": token,
		}).
		SetResult(&result).
		Post(v.endpoint)
	if err != nil {
		v.logger.Error("anti-spam verification call failed", "error", err)
		return dErrors.Wrap(err, dErrors.CodeAntiSpamFailed, "anti-spam verification unavailable")
	}
	if !resp.IsSuccess() {
		v.logger.Error("anti-spam verification rejected", "status", resp.StatusCode())
		return dErrors.New(dErrors.CodeAntiSpamFailed, "anti-spam verification unavailable")
	}

	if !result.Success {
		v.logger.Warn("anti-spam token rejected", "error_codes", result.Errors)
		return dErrors.New(dErrors.CodeAntiSpamFailed, "anti-spam token rejected")
	}
	if result.Score < v.minScore {
		v.logger.Warn("anti-spam score below threshold",
			"score", result.Score, "min_score", v.minScore)
		return dErrors.New(dErrors.CodeAntiSpamFailed, "anti-spam score below threshold")
	}
	return nil
}

// StaticVerifier is a fixed-outcome Verifier for development and tests.
type StaticVerifier struct {
	Allow bool
}

func (v StaticVerifier) Verify(_ context.Context, _ string) error {
	if v.Allow {
		return nil
	}
	return dErrors.New(dErrors.CodeAntiSpamFailed, "submission rejected")
}
