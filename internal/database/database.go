package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ndewijer/papertrade/internal/apperrors"

	_ "modernc.org/sqlite" // SQLite driver
)

// MemoryPath opens a private in-memory database. Used by tests and dry runs.
const MemoryPath = ":memory:"

// busyTimeout is how long a writer waits for the write lock before giving up.
const busyTimeout = 5 * time.Second

// Open opens a connection to the SQLite database.
//
// Every transaction is started with BEGIN IMMEDIATE (_txlock=immediate) so the
// write lock is taken up front: two trades against the same ledger are
// serialised by SQLite instead of racing on a read-then-write.
func Open(dbPath string) (*sql.DB, error) {
	inMemory := dbPath == MemoryPath || strings.Contains(dbPath, "mode=memory")

	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", buildConnectionString(dbPath, inMemory))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each connection to :memory: is its own database.
	if inMemory {
		db.SetMaxOpenConns(1)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// buildConnectionString appends the driver options and PRAGMAs to the path.
func buildConnectionString(path string, inMemory bool) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	connStr := path + sep + "_txlock=immediate"
	connStr += fmt.Sprintf("&_pragma=busy_timeout(%d)", busyTimeout.Milliseconds())
	connStr += "&_pragma=foreign_keys(1)"
	if !inMemory {
		connStr += "&_pragma=journal_mode(WAL)"
		connStr += "&_pragma=synchronous(FULL)"
	}
	return connStr
}

// HealthCheck performs a simple health check on the database
func HealthCheck(db *sql.DB) error {
	return db.Ping()
}

// WithTransaction runs fn inside a single store transaction.
//
// ctx is only checked before the transaction begins. fn receives a context
// detached from ctx's cancellation: once started, a transaction either
// commits or rolls back on its own terms. The transaction is rolled back
// when fn returns an error or panics, and committed only when fn succeeds. Failing to begin or commit is reported as
// apperrors.ErrStoreUnavailable; errors returned by fn are passed through
// unchanged so callers can match them with errors.Is.
func WithTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	if db == nil {
		return fmt.Errorf("%w: database connection is nil", apperrors.ErrStoreUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	txCtx := context.WithoutCancel(ctx)
	tx, err := db.BeginTx(txCtx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", apperrors.ErrStoreUnavailable, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rollbackErr)
			}
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("%w: failed to commit transaction: %v", apperrors.ErrStoreUnavailable, commitErr)
		}
	}()

	err = fn(txCtx, tx)
	return err
}
