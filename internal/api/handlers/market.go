package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/papertrade/internal/api/request"
	"github.com/ndewijer/papertrade/internal/api/response"
	"github.com/ndewijer/papertrade/internal/service"
)

// MarketHandler serves price lookups.
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// Quote handles GET requests for the current price of a symbol.
//
// Endpoint: GET /api/quote/{symbol}
// Response: 200 OK with model.Listing
// Error: 400 Bad Request if the symbol is invalid (validated by middleware)
// Error: 502 Bad Gateway if no price could be obtained
func (h *MarketHandler) Quote(w http.ResponseWriter, r *http.Request) {
	listing, err := h.marketService.Quote(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		response.RespondServiceError(w, err, "failed to retrieve quote")
		return
	}

	response.RespondJSON(w, http.StatusOK, listing)
}

// Market handles GET requests for priced listings of an exchange.
//
// Endpoint: GET /api/market?exchange=US&limit=15
// Response: 200 OK with array of model.Listing
// Error: 400 Bad Request if limit is invalid
// Error: 502 Bad Gateway if the provider cannot list symbols
func (h *MarketHandler) Market(w http.ResponseWriter, r *http.Request) {
	limit, err := request.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		response.RespondServiceError(w, err, "invalid limit")
		return
	}

	exchange := r.URL.Query().Get("exchange")
	if exchange == "" {
		exchange = "US"
	}

	listings, err := h.marketService.Listings(r.Context(), exchange, limit)
	if err != nil {
		response.RespondServiceError(w, err, "failed to retrieve listings")
		return
	}

	response.RespondJSON(w, http.StatusOK, listings)
}
