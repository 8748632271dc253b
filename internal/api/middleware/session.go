package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ndewijer/papertrade/internal/api/response"
	"github.com/ndewijer/papertrade/internal/apperrors"
)

type contextKey string

const accountIDKey contextKey = "accountID"

// SessionVerifier resolves a session token to the account it was issued for.
type SessionVerifier interface {
	Verify(token string) (string, error)
}

// RequireSession rejects requests without a valid "Authorization: Bearer <token>"
// header with 401 Unauthorized. The verified account ID is stored in the request
// context and can be read with AccountID.
func RequireSession(sessions SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrSessionInvalid.Error(), "Missing session token")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrSessionInvalid.Error(), "Expected a Bearer token")
				return
			}

			accountID, err := sessions.Verify(strings.TrimSpace(token))
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrSessionInvalid.Error(), "Invalid session token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
		})
	}
}

// WithAccountID returns a copy of ctx carrying the authenticated account ID.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// AccountID returns the authenticated account ID stored by RequireSession.
func AccountID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok && id != ""
}
