// Package admin exposes the operator surface: recent audit events behind
// JWT bearer auth.
package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rgckd/hc-self-service-portal/internal/audit"
	"github.com/rgckd/hc-self-service-portal/internal/platform/middleware"
)

const defaultListLimit = 100

// Handler serves the admin routes.
type Handler struct {
	audits audit.Store
	logger *slog.Logger
}

func New(audits audit.Store, logger *slog.Logger) *Handler {
	return &Handler{audits: audits, logger: logger}
}

// Routes mounts the admin endpoints behind the JWT guard.
func (h *Handler) Routes(validator middleware.JWTValidator) func(chi.Router) {
	return func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, h.logger))
		r.Get("/audit", h.handleListAudit)
	}
}

func (h *Handler) handleListAudit(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := h.audits.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list audit events", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "service temporarily unavailable",
		})
		return
	}

	h.logger.Info("audit events listed",
		"admin", middleware.GetAdminSubject(r.Context()), "count", len(events))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"events":  events,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
