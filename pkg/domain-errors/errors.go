// Package domainerrors defines the coded error type used across service
// boundaries. Stores and clients return sentinel or wrapped errors; services
// translate them into coded domain errors; the transport layer maps codes to
// HTTP statuses and client-safe messages.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure. Codes are stable identifiers, not
// display strings.
type Code string

const (
	CodeMissingField       Code = "missing_field"
	CodeStoreUnavailable   Code = "store_unavailable"
	CodeSchemaError        Code = "schema_error"
	CodeSheetNotFound      Code = "registration_sheet_not_found"
	CodeSheetInvalid       Code = "registration_sheet_invalid"
	CodeInvalidReference   Code = "invalid_reference"
	CodeAntiSpamFailed     Code = "antispam_failed"
	CodeOutputStoreMissing Code = "output_store_missing"
	CodeUnauthorized       Code = "unauthorized"
	CodeRateLimited        Code = "rate_limited"
	CodeBadRequest         Code = "bad_request"
	CodeInternal           Code = "internal"
)

// Error carries a code, a message safe for logs, and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		if err == nil {
			break
		}
	}
	return false
}

// CodeOf returns the code of the outermost coded error, or CodeInternal when
// err carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeMissingField, CodeBadRequest, CodeAntiSpamFailed:
		return http.StatusBadRequest
	case CodeSheetNotFound:
		return http.StatusNotFound
	case CodeSheetInvalid, CodeInvalidReference:
		return http.StatusUnprocessableEntity
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeStoreUnavailable, CodeOutputStoreMissing:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
