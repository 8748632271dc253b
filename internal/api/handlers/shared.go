// Package handlers adapts HTTP requests to the service layer.
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/papertrade/internal/api/middleware"
	"github.com/ndewijer/papertrade/internal/api/response"
	"github.com/ndewijer/papertrade/internal/apperrors"
)

// maxBodyBytes caps request bodies; every accepted body is a small JSON object.
const maxBodyBytes = 1 << 16

// parseJSON decodes the request body into a T. Unknown fields and trailing
// data are rejected. Errors wrap apperrors.ErrValidation.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("%w: invalid request body: %v", apperrors.ErrValidation, err)
	}
	if dec.More() {
		return v, fmt.Errorf("%w: invalid request body: unexpected data after JSON object", apperrors.ErrValidation)
	}
	return v, nil
}

// sessionAccount returns the account ID stored by the session middleware.
// It answers 401 and returns false when the route was mounted without it.
func sessionAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, apperrors.ErrSessionInvalid.Error(), "Missing session")
	}
	return accountID, ok
}
