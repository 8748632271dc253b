package handlers

import (
	"net/http"

	"github.com/ndewijer/papertrade/internal/api/request"
	"github.com/ndewijer/papertrade/internal/api/response"
	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/service"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// History handles GET requests for the session account's transaction log, newest first.
//
// Endpoint: GET /api/transaction?limit=20
// Response: 200 OK with array of model.Transaction
// Error: 400 Bad Request if limit is invalid
// Error: 404 Not Found if the account no longer exists
func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, ok := sessionAccount(w, r)
	if !ok {
		return
	}

	limit, err := request.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		response.RespondServiceError(w, err, "invalid limit")
		return
	}

	transactions, err := h.transactionService.History(r.Context(), accountID, limit)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}
