// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses, standardized error responses and the
// mapping from ledger errors to HTTP status codes.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/validation"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, additional context, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, http.StatusNotFound, "resource not found", "")
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// StatusFor maps an error returned by the service layer to an HTTP status code.
// Unrecognised errors map to 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrAuthFailure),
		errors.Is(err, apperrors.ErrSessionInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrInsufficientShares),
		errors.Is(err, apperrors.ErrNoPosition),
		errors.Is(err, apperrors.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrQuoteFailure):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondServiceError sends err with the status chosen by StatusFor.
// Validation errors carry their per-field messages as details; server-side
// failures are logged and answered with message only.
func RespondServiceError(w http.ResponseWriter, err error, message string) {
	status := StatusFor(err)

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		RespondError(w, status, apperrors.ErrValidation.Error(), verr.Fields)
	case status >= http.StatusInternalServerError:
		log.Error().Err(err).Int("status", status).Msg(message)
		RespondError(w, status, message, err.Error())
	default:
		RespondError(w, status, message, err.Error())
	}
}
