package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/auth"
	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/repository"
	"github.com/ndewijer/papertrade/internal/validation"
)

// dummyHash is compared against when a username is unknown, so a failed
// login costs the same whether or not the account exists.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := auth.HashPassword("papertrade")
	return hash
})

// AccountService handles signup, login and account lookup.
type AccountService struct {
	accountRepo     *repository.AccountRepository
	startingBalance float64
	log             zerolog.Logger
}

// NewAccountService creates a new AccountService. New accounts start with startingBalance in cash.
func NewAccountService(accountRepo *repository.AccountRepository, startingBalance float64, log zerolog.Logger) *AccountService {
	return &AccountService{
		accountRepo:     accountRepo,
		startingBalance: startingBalance,
		log:             log,
	}
}

// Signup registers a new account with the configured starting balance.
//
// Errors:
//   - apperrors.ErrValidation: malformed username or password
//   - apperrors.ErrDuplicateUsername: the username is taken
func (s *AccountService) Signup(ctx context.Context, username, password string) (*model.Account, error) {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:             uuid.New().String(),
		Username:       username,
		CredentialHash: hash,
		CashBalance:    s.startingBalance,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", account.ID).Str("username", username).Msg("Account created")
	return account, nil
}

// Authenticate checks a username and password and returns the matching account.
// An unknown username and a wrong password both yield apperrors.ErrAuthFailure.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*model.Account, error) {
	account, err := s.accountRepo.GetByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrAccountNotFound) {
		_ = auth.CheckPassword(dummyHash(), password)
		return nil, apperrors.ErrAuthFailure
	}
	if err != nil {
		return nil, err
	}

	if err := auth.CheckPassword(account.CredentialHash, password); err != nil {
		s.log.Info().Str("username", username).Msg("Login failed")
		return nil, apperrors.ErrAuthFailure
	}
	return &account, nil
}

// Get returns the account with the given ID.
func (s *AccountService) Get(ctx context.Context, accountID string) (*model.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
