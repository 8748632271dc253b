package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/quote"
	"github.com/ndewijer/papertrade/internal/repository"
	"github.com/ndewijer/papertrade/internal/service"
)

func NewTestTradeService(t *testing.T, db *sql.DB, quoter quote.Quoter) *service.TradeService {
	t.Helper()

	return service.NewTradeService(
		db,
		repository.NewAccountRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
		quoter,
		zerolog.Nop(),
	)
}

func NewTestPortfolioService(t *testing.T, db *sql.DB, quoter quote.Quoter) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		db,
		repository.NewAccountRepository(db),
		repository.NewHoldingRepository(db),
		quoter,
		zerolog.Nop(),
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		repository.NewAccountRepository(db),
		repository.NewTransactionRepository(db),
	)
}

func NewTestLeaderboardService(t *testing.T, db *sql.DB) *service.LeaderboardService {
	t.Helper()

	return service.NewLeaderboardService(repository.NewAccountRepository(db))
}

func NewTestAccountService(t *testing.T, db *sql.DB) *service.AccountService {
	t.Helper()

	return service.NewAccountService(
		repository.NewAccountRepository(db),
		model.DefaultStartingBalance,
		zerolog.Nop(),
	)
}

func NewTestMarketService(t *testing.T, quoter *MockQuoter) *service.MarketService {
	t.Helper()

	return service.NewMarketService(quoter, quoter, zerolog.Nop())
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeUsername generates a unique username for testing.
//
// Example usage:
//
//	name := testutil.MakeUsername("alice")
//	// Returns: "alice_ABC123"
func MakeUsername(base string) string {
	if base == "" {
		base = "user"
	}
	return base + "_" + randomAlphanumeric(6)
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
