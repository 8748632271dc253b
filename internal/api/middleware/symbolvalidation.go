// Package middleware provides HTTP middleware for request validation, logging and sessions.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/papertrade/internal/api/response"
	"github.com/ndewijer/papertrade/internal/validation"
)

// ValidateSymbolMiddleware validates that the symbol URL parameter is present and,
// once upper-cased, is a well-formed ticker symbol.
// Returns 400 Bad Request if the symbol is missing or invalid.
//
// Example usage in router:
//
//	r.With(middleware.ValidateSymbolMiddleware).Get("/quote/{symbol}", handler.Quote)
func ValidateSymbolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")

		if symbol == "" {
			response.RespondError(w, http.StatusBadRequest, "symbol is required", "")
			return
		}

		if err := validation.ValidateSymbol(validation.NormalizeSymbol(symbol)); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
