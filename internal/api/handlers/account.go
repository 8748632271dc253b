package handlers

import (
	"net/http"

	"github.com/ndewijer/papertrade/internal/api/request"
	"github.com/ndewijer/papertrade/internal/api/response"
	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/auth"
	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/service"
)

// AccountHandler handles signup, login and the current account.
type AccountHandler struct {
	accountService *service.AccountService
	sessions       *auth.Sessions
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService, sessions *auth.Sessions) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		sessions:       sessions,
	}
}

// SessionResponse is returned by a successful login.
type SessionResponse struct {
	Token   string         `json:"token"`
	Account *model.Account `json:"account"`
}

// Signup handles POST requests to register a new account.
//
// Endpoint: POST /api/account
// Request: request.CredentialsRequest
// Response: 201 Created with model.Account
// Error: 400 Bad Request if the username or password is malformed
// Error: 409 Conflict if the username is taken
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CredentialsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountService.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToCreateAccount.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, account)
}

// Login handles POST requests exchanging a username and password for a session token.
// The token is sent as "Authorization: Bearer <token>" on authenticated routes.
//
// Endpoint: POST /api/session
// Request: request.CredentialsRequest
// Response: 200 OK with SessionResponse
// Error: 401 Unauthorized on an unknown username or wrong password
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CredentialsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrAuthFailure.Error())
		return
	}

	token, err := h.sessions.Issue(account.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to issue session", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, SessionResponse{Token: token, Account: account})
}

// Me handles GET requests for the account of the current session.
//
// Endpoint: GET /api/account
// Response: 200 OK with model.Account
// Error: 404 Not Found if the account no longer exists
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := sessionAccount(w, r)
	if !ok {
		return
	}

	account, err := h.accountService.Get(r.Context(), accountID)
	if err != nil {
		response.RespondServiceError(w, err, "failed to retrieve account")
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}
