package service

import (
	"context"

	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/repository"
	"github.com/ndewijer/papertrade/internal/validation"
)

// TransactionService serves the read-only transaction history of an account.
type TransactionService struct {
	accountRepo     *repository.AccountRepository
	transactionRepo *repository.TransactionRepository
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	accountRepo *repository.AccountRepository,
	transactionRepo *repository.TransactionRepository,
) *TransactionService {
	return &TransactionService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// History returns up to limit transactions of the account, newest first.
// A limit of 0 returns the full history.
// Returns apperrors.ErrAccountNotFound for an unknown account.
func (s *TransactionService) History(ctx context.Context, accountID string, limit int) ([]model.Transaction, error) {
	if err := validation.ValidateLimit(limit); err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.transactionRepo.ListByAccount(ctx, accountID, limit)
}
