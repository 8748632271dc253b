package apperrors

import "errors"

// Domain entity errors represent missing entities in the ledger.
var (
	// ErrAccountNotFound indicates that an account with the given ID does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNoPosition indicates that the account holds no shares of the requested symbol.
	ErrNoPosition = errors.New("no position in symbol")
)

// Trade rejection errors. A trade failing with one of these leaves the ledger untouched.
var (
	// ErrValidation indicates malformed input (non-positive quantity, negative price, bad symbol).
	// It is raised before any store access.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientFunds indicates that the cash balance does not cover quantity * price.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares indicates that a sell asks for more shares than are held.
	ErrInsufficientShares = errors.New("insufficient shares for sale")
)

// Collaborator errors originate outside the ledger and abort the requested operation.
var (
	// ErrQuoteFailure indicates that no usable price could be obtained for a symbol.
	ErrQuoteFailure = errors.New("quote unavailable")

	// ErrAuthFailure indicates an unknown username or a wrong password.
	ErrAuthFailure = errors.New("invalid username or password")

	// ErrSessionInvalid indicates a missing, expired or tampered session token.
	ErrSessionInvalid = errors.New("session invalid or expired")

	// ErrDuplicateUsername indicates that the username is already registered.
	ErrDuplicateUsername = errors.New("username already taken")
)

// ErrStoreUnavailable indicates that the store transaction could not be opened,
// applied or committed. The trade is considered not executed.
var ErrStoreUnavailable = errors.New("ledger store unavailable")

// Operation failure errors are used as user-facing messages by the API layer.
var (
	ErrFailedToRetrievePortfolio    = errors.New("failed to retrieve portfolio")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveLeaderboard  = errors.New("failed to retrieve leaderboard")
	ErrFailedToExecuteTrade         = errors.New("failed to execute trade")
	ErrFailedToCreateAccount        = errors.New("failed to create account")
)
