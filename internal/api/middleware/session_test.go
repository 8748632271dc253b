package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/papertrade/internal/api/middleware"
	"github.com/ndewijer/papertrade/internal/apperrors"
)

type fakeVerifier map[string]string

func (f fakeVerifier) Verify(token string) (string, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return "", apperrors.ErrSessionInvalid
}

func TestRequireSession(t *testing.T) {
	verifier := fakeVerifier{"good-token": "acc-1"}

	run := func(t *testing.T, header string) (*httptest.ResponseRecorder, string, bool) {
		t.Helper()
		var gotID string
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			gotID, _ = middleware.AccountID(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		middleware.RequireSession(verifier)(next).ServeHTTP(w, req)
		return w, gotID, called
	}

	t.Run("passes the account ID of a valid token", func(t *testing.T) {
		w, id, called := run(t, "Bearer good-token")

		if !called {
			t.Fatal("Expected next handler to be called")
		}
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
		if id != "acc-1" {
			t.Errorf("Expected account ID 'acc-1', got '%s'", id)
		}
	})

	rejected := []struct {
		name    string
		header  string
		details string
	}{
		{"missing header", "", "Missing session token"},
		{"wrong scheme", "Basic good-token", "Expected a Bearer token"},
		{"unknown token", "Bearer forged", "Invalid session token"},
	}
	for _, tc := range rejected {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			w, _, called := run(t, tc.header)

			if called {
				t.Error("Expected request not to complete.")
			}
			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d", w.Code)
			}

			var response map[string]string
			//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
			json.NewDecoder(w.Body).Decode(&response)

			if response["details"] != tc.details {
				t.Errorf("Expected '%s', got '%s'", tc.details, response["details"])
			}
		})
	}
}

func TestAccountID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := middleware.AccountID(req.Context()); ok {
		t.Error("Expected no account ID on a bare context")
	}

	ctx := middleware.WithAccountID(req.Context(), "acc-2")
	if id, ok := middleware.AccountID(ctx); !ok || id != "acc-2" {
		t.Errorf("Expected 'acc-2', got '%s' (ok=%v)", id, ok)
	}
}
