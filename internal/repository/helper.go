package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TimestampLayout is the fixed-width UTC layout used for stored timestamps.
// Fixed width keeps lexical ORDER BY equal to chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t in TimestampLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTime parses a stored timestamp. RFC3339 and "2006-01-02" are accepted as well.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", str)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func pick(db *sql.DB, tx *sql.Tx) querier {
	if tx != nil {
		return tx
	}
	return db
}
