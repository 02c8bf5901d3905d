package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "github.com/rgckd/hc-self-service-portal/pkg/domain-errors"
)

type programsResponse struct {
	Success  bool     `json:"success"`
	Programs []string `json:"programs"`
}

type requestsResponse struct {
	Success  bool     `json:"success"`
	Requests []string `json:"requests"`
}

type verifyResponse struct {
	Success         bool    `json:"success"`
	Registered      bool    `json:"registered"`
	RegistrationURL *string `json:"registrationUrl,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError centralizes domain error translation into the uniform
// {success:false, message} envelope. Clients never see internal detail:
// configuration errors get a generic message, abuse rejections a
// deliberately vague one.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", code, "error", err)
	}
	writeJSON(w, status, messageResponse{Success: false, Message: clientMessage(code)})
}

func clientMessage(code dErrors.Code) string {
	switch code {
	case dErrors.CodeMissingField:
		return "required field is missing"
	case dErrors.CodeSheetNotFound:
		return "registration sheet not found"
	case dErrors.CodeSheetInvalid:
		return "registration sheet is not usable"
	case dErrors.CodeAntiSpamFailed:
		return "submission could not be processed"
	case dErrors.CodeBadRequest:
		return "invalid request"
	case dErrors.CodeRateLimited:
		return "too many requests"
	case dErrors.CodeUnauthorized:
		return "unauthorized"
	default:
		// SchemaError, StoreUnavailable, OutputStoreMissing, Internal:
		// operator problems, generic message only.
		return "service temporarily unavailable"
	}
}
