package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/papertrade/internal/model"
)

// TransactionRepository provides data access methods for the transactions table.
// Transactions are append-only: the repository offers no update or delete.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	return pick(r.db, r.tx)
}

// Append inserts an executed trade.
func (r *TransactionRepository) Append(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, symbol, type, quantity, price, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.AccountID,
		t.Symbol,
		string(t.Kind),
		t.Quantity,
		t.Price,
		FormatTime(t.ExecutedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// LastTimestamp returns the timestamp of the account's most recent transaction,
// or the zero time when the account has none.
func (r *TransactionRepository) LastTimestamp(ctx context.Context, accountID string) (time.Time, error) {
	var last sql.NullString
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT MAX(executed_at) FROM transactions WHERE account_id = ?`,
		accountID,
	).Scan(&last)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query last transaction: %w", err)
	}
	if !last.Valid {
		return time.Time{}, nil
	}
	return ParseTime(last.String)
}

// ListByAccount returns the account's transactions, newest first.
// Transactions sharing a timestamp are returned in reverse insertion order.
// A limit <= 0 returns all transactions.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]model.Transaction, error) {
	query := `
		SELECT id, account_id, symbol, type, quantity, price, executed_at
		FROM transactions
		WHERE account_id = ?
		ORDER BY executed_at DESC, rowid DESC
	`
	args := []any{accountID}

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		var t model.Transaction
		var kind, executedAtStr string

		err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&t.Symbol,
			&kind,
			&t.Quantity,
			&t.Price,
			&executedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transactions table results: %w", err)
		}
		t.Kind = model.TradeKind(kind)

		t.ExecutedAt, err = ParseTime(executedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions table: %w", err)
	}

	return transactions, nil
}
