package handlers

import (
	"net/http"

	"github.com/ndewijer/papertrade/internal/api/response"
	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/service"
)

// PortfolioHandler serves the priced portfolio of the session account.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Portfolio handles GET requests for the session account's holdings valued at current quotes.
// Positions whose quote fails are returned with priceAvailable=false and a price of 0.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with model.PortfolioView
// Error: 404 Not Found if the account no longer exists
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	accountID, ok := sessionAccount(w, r)
	if !ok {
		return
	}

	view, err := h.portfolioService.View(r.Context(), accountID)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, view)
}
