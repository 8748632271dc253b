package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/papertrade/internal/apperrors"
)

// ledgerErrors are the outcomes a trade may legitimately fail with while its
// transaction is open. Anything else is a store failure.
var ledgerErrors = []error{
	apperrors.ErrAccountNotFound,
	apperrors.ErrNoPosition,
	apperrors.ErrInsufficientFunds,
	apperrors.ErrInsufficientShares,
	apperrors.ErrValidation,
}

// storeError passes ledger errors through and reports every other error as
// apperrors.ErrStoreUnavailable.
func storeError(err error) error {
	for _, target := range ledgerErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	if errors.Is(err, apperrors.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
}

// nextTimestamp keeps an account's transaction timestamps non-decreasing
// even when the wall clock steps backwards.
func nextTimestamp(now, last time.Time) time.Time {
	now = now.UTC()
	if now.Before(last) {
		return last
	}
	return now
}
