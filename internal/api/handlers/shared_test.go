package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/papertrade/internal/api/request"
	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/testutil"
)

// TestParseJSON tests the parseJSON helper function.
// This is an internal test (package handlers, not handlers_test) because
// parseJSON is unexported.
func TestParseJSON(t *testing.T) {
	t.Run("decodes a valid body", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{"symbol": "AAPL", "quantity": 3})

		got, err := parseJSON[request.TradeRequest](req)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got.Symbol != "AAPL" || got.Quantity != 3 {
			t.Errorf("Unexpected result: %+v", got)
		}
	})

	bad := map[string]string{
		"malformed":      `{"symbol": `,
		"unknown field":  `{"symbol": "AAPL", "price": 1}`,
		"trailing data":  `{"symbol": "AAPL"} {"symbol": "MSFT"}`,
		"wrong type":     `{"quantity": "three"}`,
		"fractional qty": `{"quantity": 1.5}`,
	}
	for name, body := range bad {
		t.Run("rejects "+name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

			_, err := parseJSON[request.TradeRequest](req)
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSessionAccount(t *testing.T) {
	t.Run("answers 401 without a session", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		if _, ok := sessionAccount(w, req); ok {
			t.Error("Expected no account")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("returns the session account", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := testutil.WithSession(httptest.NewRequest(http.MethodGet, "/", nil), "acc-1")

		id, ok := sessionAccount(w, req)
		if !ok || id != "acc-1" {
			t.Errorf("Expected 'acc-1', got '%s' (ok=%v)", id, ok)
		}
	})
}
