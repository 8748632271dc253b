package handlers

import (
	"net/http"

	"github.com/ndewijer/papertrade/internal/api/request"
	"github.com/ndewijer/papertrade/internal/api/response"
	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/service"
)

// TradeHandler places market orders for the session account.
type TradeHandler struct {
	tradeService *service.TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeService *service.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

// Buy handles POST requests to buy shares at the current quote.
//
// Endpoint: POST /api/trade/buy
// Request: request.TradeRequest
// Response: 201 Created with model.TradeResult
// Error: 400 Bad Request on a malformed symbol or non-positive quantity
// Error: 409 Conflict if the cash balance does not cover the order
// Error: 502 Bad Gateway if no price could be obtained
// Error: 503 Service Unavailable if the ledger could not be updated
func (h *TradeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.place(w, r, model.Buy)
}

// Sell handles POST requests to sell shares at the current quote.
//
// Endpoint: POST /api/trade/sell
// Request: request.TradeRequest
// Response: 201 Created with model.TradeResult
// Error: 400 Bad Request on a malformed symbol or non-positive quantity
// Error: 409 Conflict if the account holds no or too few shares
// Error: 502 Bad Gateway if no price could be obtained
// Error: 503 Service Unavailable if the ledger could not be updated
func (h *TradeHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.place(w, r, model.Sell)
}

func (h *TradeHandler) place(w http.ResponseWriter, r *http.Request, kind model.TradeKind) {
	accountID, ok := sessionAccount(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.TradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.tradeService.PlaceOrder(r.Context(), accountID, req.Symbol, kind, req.Quantity)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToExecuteTrade.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, result)
}
