package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/model"
)

// AccountRepository provides data access methods for the accounts table.
type AccountRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx returns a new AccountRepository scoped to the provided transaction.
func (r *AccountRepository) WithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *AccountRepository) getQuerier() querier {
	return pick(r.db, r.tx)
}

const accountColumns = `id, username, credential_hash, cash_balance, total_portfolio_value, created_at`

func scanAccount(row interface{ Scan(dest ...any) error }) (model.Account, error) {
	var a model.Account
	var createdAtStr string

	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.CredentialHash,
		&a.CashBalance,
		&a.TotalPortfolioValue,
		&createdAtStr,
	)
	if err != nil {
		return model.Account{}, err
	}

	a.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Account{}, err
	}
	return a, nil
}

// Create inserts a new account.
// Returns apperrors.ErrDuplicateUsername when the username is already registered.
func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	query := `
		INSERT INTO accounts (id, username, credential_hash, cash_balance, total_portfolio_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		a.ID,
		a.Username,
		a.CredentialHash,
		a.CashBalance,
		a.TotalPortfolioValue,
		FormatTime(a.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: accounts.username") {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateUsername, a.Username)
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by ID.
// Returns apperrors.ErrAccountNotFound if no such account exists.
func (r *AccountRepository) GetByID(ctx context.Context, accountID string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

	a, err := scanAccount(r.getQuerier().QueryRowContext(ctx, query, accountID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to query accounts table: %w", err)
	}
	return a, nil
}

// GetByUsername retrieves an account by its unique username.
// Returns apperrors.ErrAccountNotFound if no such account exists.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = ?`

	a, err := scanAccount(r.getQuerier().QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, username)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to query accounts table: %w", err)
	}
	return a, nil
}

// GetCashBalance reads the cash balance of an account.
func (r *AccountRepository) GetCashBalance(ctx context.Context, accountID string) (float64, error) {
	var cash float64
	err := r.getQuerier().QueryRowContext(ctx, `SELECT cash_balance FROM accounts WHERE id = ?`, accountID).Scan(&cash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cash balance: %w", err)
	}
	return cash, nil
}

// SetCashBalance overwrites the cash balance of an account.
func (r *AccountRepository) SetCashBalance(ctx context.Context, accountID string, cash float64) error {
	res, err := r.getQuerier().ExecContext(ctx, `UPDATE accounts SET cash_balance = ? WHERE id = ?`, cash, accountID)
	if err != nil {
		return fmt.Errorf("failed to update cash balance: %w", err)
	}
	return requireOneRow(res, accountID)
}

// RecomputePortfolioValue stores SUM(quantity * average_cost) over the account's
// holdings into total_portfolio_value and returns the new value.
func (r *AccountRepository) RecomputePortfolioValue(ctx context.Context, accountID string) (float64, error) {
	var total float64
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity * average_cost), 0.0) FROM holdings WHERE account_id = ?`,
		accountID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum holdings: %w", err)
	}

	res, err := r.getQuerier().ExecContext(ctx,
		`UPDATE accounts SET total_portfolio_value = ? WHERE id = ?`,
		total, accountID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update total portfolio value: %w", err)
	}
	if err := requireOneRow(res, accountID); err != nil {
		return 0, err
	}
	return total, nil
}

// Leaderboard returns up to limit accounts ordered by net worth
// (cash_balance + total_portfolio_value) descending. Equal net worths keep creation order.
func (r *AccountRepository) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	query := `
		SELECT id, username, cash_balance, total_portfolio_value,
		       cash_balance + total_portfolio_value AS net_worth
		FROM accounts
		ORDER BY net_worth DESC, created_at ASC, rowid ASC
		LIMIT ?
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []model.LeaderboardEntry{}
	for rows.Next() {
		e := model.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&e.AccountID, &e.Username, &e.CashBalance, &e.TotalPortfolioValue, &e.NetWorth); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard results: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}
	return entries, nil
}

func requireOneRow(res sql.Result, accountID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return nil
}
