package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/model"
)

// HoldingRepository provides data access methods for the holdings table.
// A holding is keyed by (account_id, symbol) and is deleted rather than stored with zero quantity.
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a new HoldingRepository scoped to the provided transaction.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HoldingRepository) getQuerier() querier {
	return pick(r.db, r.tx)
}

// Get retrieves the holding of an account in one symbol.
// Returns apperrors.ErrNoPosition if the account holds no shares of symbol.
func (r *HoldingRepository) Get(ctx context.Context, accountID, symbol string) (model.Holding, error) {
	query := `
		SELECT account_id, symbol, quantity, average_cost
		FROM holdings
		WHERE account_id = ? AND symbol = ?
	`

	var h model.Holding
	err := r.getQuerier().QueryRowContext(ctx, query, accountID, symbol).Scan(
		&h.AccountID,
		&h.Symbol,
		&h.Quantity,
		&h.AverageCost,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, fmt.Errorf("%w: %s", apperrors.ErrNoPosition, symbol)
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to query holdings table: %w", err)
	}
	return h, nil
}

// Upsert inserts the holding or replaces quantity and average cost of the existing row.
func (r *HoldingRepository) Upsert(ctx context.Context, h model.Holding) error {
	query := `
		INSERT INTO holdings (account_id, symbol, quantity, average_cost)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (account_id, symbol) DO UPDATE SET
			quantity = excluded.quantity,
			average_cost = excluded.average_cost
	`

	if _, err := r.getQuerier().ExecContext(ctx, query, h.AccountID, h.Symbol, h.Quantity, h.AverageCost); err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}
	return nil
}

// Delete removes the holding of an account in one symbol.
func (r *HoldingRepository) Delete(ctx context.Context, accountID, symbol string) error {
	res, err := r.getQuerier().ExecContext(ctx, `DELETE FROM holdings WHERE account_id = ? AND symbol = ?`, accountID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrNoPosition, symbol)
	}
	return nil
}

// ListByAccount returns all holdings of an account ordered by symbol.
// Returns an empty slice if the account holds nothing.
func (r *HoldingRepository) ListByAccount(ctx context.Context, accountID string) ([]model.Holding, error) {
	query := `
		SELECT account_id, symbol, quantity, average_cost
		FROM holdings
		WHERE account_id = ?
		ORDER BY symbol ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		var h model.Holding
		if err := rows.Scan(&h.AccountID, &h.Symbol, &h.Quantity, &h.AverageCost); err != nil {
			return nil, fmt.Errorf("failed to scan holdings table results: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings table: %w", err)
	}
	return holdings, nil
}
