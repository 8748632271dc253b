// Package api wires the HTTP handlers, middleware and routes of the papertrade server.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/papertrade/internal/api/handlers"
	custommiddleware "github.com/ndewijer/papertrade/internal/api/middleware"
	"github.com/ndewijer/papertrade/internal/auth"
	"github.com/ndewijer/papertrade/internal/config"
	"github.com/ndewijer/papertrade/internal/service"
)

// Services bundles the service layer the router dispatches to.
type Services struct {
	System      *service.SystemService
	Account     *service.AccountService
	Market      *service.MarketService
	Trade       *service.TradeService
	Portfolio   *service.PortfolioService
	Transaction *service.TransactionService
	Leaderboard *service.LeaderboardService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, sessions *auth.Sessions, cfg *config.Config, log zerolog.Logger) http.Handler {
	requireSession := custommiddleware.RequireSession(sessions)

	systemHandler := handlers.NewSystemHandler(svc.System)
	accountHandler := handlers.NewAccountHandler(svc.Account, sessions)
	marketHandler := handlers.NewMarketHandler(svc.Market)
	tradeHandler := handlers.NewTradeHandler(svc.Trade)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
	transactionHandler := handlers.NewTransactionHandler(svc.Transaction)
	leaderboardHandler := handlers.NewLeaderboardHandler(svc.Leaderboard)

	api := chi.NewRouter()

	api.Route("/system", func(r chi.Router) {
		r.Get("/health", systemHandler.Health)
		r.Get("/version", systemHandler.Version)
	})

	api.Post("/session", accountHandler.Login)

	api.Route("/account", func(r chi.Router) {
		r.Post("/", accountHandler.Signup)
		r.With(requireSession).Get("/", accountHandler.Me)
	})

	api.With(custommiddleware.ValidateSymbolMiddleware).Get("/quote/{symbol}", marketHandler.Quote)
	api.Get("/market", marketHandler.Market)
	api.Get("/leaderboard", leaderboardHandler.Leaderboard)

	api.Group(func(r chi.Router) {
		r.Use(requireSession)

		r.Route("/trade", func(r chi.Router) {
			r.Post("/buy", tradeHandler.Buy)
			r.Post("/sell", tradeHandler.Sell)
		})
		r.Get("/portfolio", portfolioHandler.Portfolio)
		r.Get("/transaction", transactionHandler.History)
	})

	methods, err := custommiddleware.RouteMethods(api)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to collect route methods, allowing GET and POST")
		methods = []string{http.MethodGet, http.MethodOptions, http.MethodPost}
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins, methods)
	r.Use(corsMiddleware.Handler)

	r.Mount("/api", api)

	return r
}
