// Package handler is the thin HTTP layer over the portal query service. It
// delegates to domain services without embedding business logic so transport
// concerns remain isolated.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rgckd/hc-self-service-portal/internal/antispam"
	"github.com/rgckd/hc-self-service-portal/internal/audit"
	"github.com/rgckd/hc-self-service-portal/internal/portal/service"
	"github.com/rgckd/hc-self-service-portal/internal/submission"
	dErrors "github.com/rgckd/hc-self-service-portal/pkg/domain-errors"
)

// Service defines what the handler needs from the portal query service.
type Service interface {
	GetPrograms(ctx context.Context) ([]string, error)
	GetRequests(ctx context.Context, program string) ([]string, error)
	VerifyEmail(ctx context.Context, program, email string) (*service.VerifyEmailResult, error)
	PrepareSubmission(ctx context.Context, program, email string, requests []string) (*submission.Record, error)
}

// Handler serves the public portal routes.
type Handler struct {
	service  Service
	verifier antispam.Verifier
	auditor  *audit.Publisher
	logger   *slog.Logger
}

func New(svc Service, verifier antispam.Verifier, auditor *audit.Publisher, logger *slog.Logger) *Handler {
	return &Handler{service: svc, verifier: verifier, auditor: auditor, logger: logger}
}

// Routes mounts the public endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/programs", h.handleGetPrograms)
	r.Get("/requests", h.handleGetRequests)
	r.Post("/verify-email", h.handleVerifyEmail)
	r.Post("/submit", h.handleSubmit)
}

func (h *Handler) handleGetPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.service.GetPrograms(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, programsResponse{Success: true, Programs: programs})
}

func (h *Handler) handleGetRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.GetRequests(r.Context(), r.URL.Query().Get("program"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, requestsResponse{Success: true, Requests: requests})
}

type verifyEmailRequest struct {
	Program string `json:"program"`
	Email   string `json:"email"`
}

func (h *Handler) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	result, err := h.service.VerifyEmail(r.Context(), req.Program, req.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{
		Success:         true,
		Registered:      result.Registered,
		RegistrationURL: result.RegistrationURL,
	})
}

type submitRequest struct {
	Program       string   `json:"program"`
	Email         string   `json:"email"`
	Requests      []string `json:"requests"`
	AntiSpamToken string   `json:"antiSpamToken"`

	// Website is the honeypot. The form hides it; humans leave it empty.
	Website string `json:"website"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	// Honeypot first: short-circuit before any other processing, without
	// revealing the reason.
	if req.Website != "" {
		h.auditor.Emit(r.Context(), audit.Event{
			Action:  audit.ActionHoneypotTripped,
			Program: req.Program,
			Email:   req.Email,
		})
		writeError(w, h.logger, dErrors.New(dErrors.CodeAntiSpamFailed, "honeypot tripped"))
		return
	}

	if err := h.verifier.Verify(r.Context(), req.AntiSpamToken); err != nil {
		h.auditor.Emit(r.Context(), audit.Event{
			Action:  audit.ActionSubmissionRejected,
			Program: req.Program,
			Email:   req.Email,
			Reason:  "antispam",
		})
		writeError(w, h.logger, err)
		return
	}

	if _, err := h.service.PrepareSubmission(r.Context(), req.Program, req.Email, req.Requests); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "request recorded"})
}
