package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/papertrade/internal/auth"
	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/repository"
)

// AccountBuilder provides a fluent interface for creating test accounts.
//
// Example usage:
//
//	// Simple creation with defaults (10000 cash, no holdings)
//	account := testutil.NewAccount().Build(t, db)
//
//	// Customized account
//	account := testutil.NewAccount().
//	    WithUsername("alice").
//	    WithCash(500).
//	    Build(t, db)
type AccountBuilder struct {
	ID          string
	Username    string
	Password    string
	CashBalance float64
	CreatedAt   time.Time
}

// NewAccount creates an AccountBuilder with sensible defaults.
func NewAccount() *AccountBuilder {
	return &AccountBuilder{
		ID:          MakeID(),
		Username:    MakeUsername("trader"),
		CashBalance: model.DefaultStartingBalance,
		CreatedAt:   time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *AccountBuilder) WithID(id string) *AccountBuilder {
	b.ID = id
	return b
}

// WithUsername sets a custom username.
func (b *AccountBuilder) WithUsername(username string) *AccountBuilder {
	b.Username = username
	return b
}

// WithPassword stores a bcrypt hash of password so the account can log in.
func (b *AccountBuilder) WithPassword(password string) *AccountBuilder {
	b.Password = password
	return b
}

// WithCash sets the starting cash balance.
func (b *AccountBuilder) WithCash(cash float64) *AccountBuilder {
	b.CashBalance = cash
	return b
}

// WithCreatedAt sets the creation time.
func (b *AccountBuilder) WithCreatedAt(createdAt time.Time) *AccountBuilder {
	b.CreatedAt = createdAt
	return b
}

// Build creates the account in the database and returns it.
func (b *AccountBuilder) Build(t *testing.T, db *sql.DB) model.Account {
	t.Helper()

	hash := "!"
	if b.Password != "" {
		var err error
		hash, err = auth.HashPassword(b.Password)
		if err != nil {
			t.Fatalf("Failed to hash password: %v", err)
		}
	}

	account := model.Account{
		ID:             b.ID,
		Username:       b.Username,
		CredentialHash: hash,
		CashBalance:    b.CashBalance,
		CreatedAt:      b.CreatedAt,
	}

	if err := repository.NewAccountRepository(db).Create(context.Background(), &account); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	return account
}

// CreateAccount is a shorthand for NewAccount().WithCash(cash).Build(t, db).
func CreateAccount(t *testing.T, db *sql.DB, cash float64) model.Account {
	t.Helper()
	return NewAccount().WithCash(cash).Build(t, db)
}

// CreateHolding stores a holding directly, bypassing the trade engine, and
// refreshes the account's cached portfolio value.
//
// Example usage:
//
//	testutil.CreateHolding(t, db, account.ID, "AAPL", 10, 100)
func CreateHolding(t *testing.T, db *sql.DB, accountID, symbol string, quantity int64, averageCost float64) model.Holding {
	t.Helper()

	ctx := context.Background()
	h := model.Holding{
		AccountID:   accountID,
		Symbol:      symbol,
		Quantity:    quantity,
		AverageCost: averageCost,
	}

	if err := repository.NewHoldingRepository(db).Upsert(ctx, h); err != nil {
		t.Fatalf("Failed to create holding: %v", err)
	}
	if _, err := repository.NewAccountRepository(db).RecomputePortfolioValue(ctx, accountID); err != nil {
		t.Fatalf("Failed to recompute portfolio value: %v", err)
	}

	return h
}

// LedgerSnapshot is the full persisted state of one account.
type LedgerSnapshot struct {
	Account      model.Account
	Holdings     []model.Holding
	Transactions []model.Transaction
}

// Snapshot reads the account row, its holdings and its transactions.
// Comparing snapshots taken before and after a failed trade proves the trade left no trace.
func Snapshot(t *testing.T, db *sql.DB, accountID string) LedgerSnapshot {
	t.Helper()

	ctx := context.Background()

	account, err := repository.NewAccountRepository(db).GetByID(ctx, accountID)
	if err != nil {
		t.Fatalf("Failed to read account: %v", err)
	}
	holdings, err := repository.NewHoldingRepository(db).ListByAccount(ctx, accountID)
	if err != nil {
		t.Fatalf("Failed to read holdings: %v", err)
	}
	transactions, err := repository.NewTransactionRepository(db).ListByAccount(ctx, accountID, 0)
	if err != nil {
		t.Fatalf("Failed to read transactions: %v", err)
	}

	return LedgerSnapshot{
		Account:      account,
		Holdings:     holdings,
		Transactions: transactions,
	}
}
