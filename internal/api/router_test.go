package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/papertrade/internal/api"
	"github.com/ndewijer/papertrade/internal/api/handlers"
	"github.com/ndewijer/papertrade/internal/auth"
	"github.com/ndewijer/papertrade/internal/config"
	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/testutil"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db := testutil.SetupTestDB(t)
	quoter := testutil.NewMockQuoter(map[string]float64{"AAPL": 100})

	key, err := auth.GenerateKey()
	require.NoError(t, err)
	sessions, err := auth.NewSessions(key, time.Hour)
	require.NoError(t, err)

	svc := api.Services{
		System:      testutil.NewTestSystemService(t, db),
		Account:     testutil.NewTestAccountService(t, db),
		Market:      testutil.NewTestMarketService(t, quoter),
		Trade:       testutil.NewTestTradeService(t, db, quoter),
		Portfolio:   testutil.NewTestPortfolioService(t, db, quoter),
		Transaction: testutil.NewTestTransactionService(t, db),
		Leaderboard: testutil.NewTestLeaderboardService(t, db),
	}
	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost"}}}

	srv := httptest.NewServer(api.NewRouter(svc, sessions, cfg, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// TestRouter_TradingSession walks a client through signup, login and a trade.
func TestRouter_TradingSession(t *testing.T) {
	srv := newTestServer(t)
	creds := `{"username": "alice", "password": "hunter22"}`

	resp := do(t, srv, http.MethodPost, "/api/account", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/session", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session handlers.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	require.NotEmpty(t, session.Token)

	resp = do(t, srv, http.MethodPost, "/api/trade/buy", session.Token, `{"symbol": "AAPL", "quantity": 5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/portfolio", session.Token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view model.PortfolioView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, model.DefaultStartingBalance-500, view.CashBalance)
	assert.Equal(t, 500.0, view.BookValue)
	require.Len(t, view.Positions, 1)
	assert.Equal(t, int64(5), view.Positions[0].Quantity)

	resp = do(t, srv, http.MethodGet, "/api/transaction", session.Token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []model.Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	assert.Len(t, history, 1)

	resp = do(t, srv, http.MethodGet, "/api/account", session.Token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_SessionRequired(t *testing.T) {
	srv := newTestServer(t)

	for _, route := range [][2]string{
		{http.MethodPost, "/api/trade/buy"},
		{http.MethodPost, "/api/trade/sell"},
		{http.MethodGet, "/api/portfolio"},
		{http.MethodGet, "/api/transaction"},
		{http.MethodGet, "/api/account"},
	} {
		t.Run(route[0]+" "+route[1], func(t *testing.T) {
			resp := do(t, srv, route[0], route[1], "", `{"symbol": "AAPL", "quantity": 1}`)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			resp = do(t, srv, route[0], route[1], "forged", `{"symbol": "AAPL", "quantity": 1}`)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestRouter_PublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/system/health", "", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/system/version", "", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/quote/aapl", "", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/quote/$$$", "", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/leaderboard", "", "").StatusCode)
}

// TestRouter_CORSPreflight checks that preflights only allow methods some route serves.
func TestRouter_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	preflight := func(method string) *http.Response {
		req, err := http.NewRequestWithContext(t.Context(), http.MethodOptions, srv.URL+"/api/trade/buy", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost")
		req.Header.Set("Access-Control-Request-Method", method)

		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := preflight(http.MethodPost)
	assert.Equal(t, "http://localhost", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPost, resp.Header.Get("Access-Control-Allow-Methods"))

	resp = preflight(http.MethodDelete)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
