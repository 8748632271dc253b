package service

import (
	"context"

	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/repository"
	"github.com/ndewijer/papertrade/internal/validation"
)

// DefaultLeaderboardSize is the number of accounts ranked when no size is requested.
const DefaultLeaderboardSize = 10

// LeaderboardService ranks accounts by net worth.
type LeaderboardService struct {
	accountRepo *repository.AccountRepository
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(accountRepo *repository.AccountRepository) *LeaderboardService {
	return &LeaderboardService{accountRepo: accountRepo}
}

// Top returns the n richest accounts by cash plus cached portfolio value, rank 1 first.
// Accounts with equal net worth keep their creation order. n == 0 selects DefaultLeaderboardSize.
func (s *LeaderboardService) Top(ctx context.Context, n int) ([]model.LeaderboardEntry, error) {
	if err := validation.ValidateLimit(n); err != nil {
		return nil, err
	}
	if n == 0 {
		n = DefaultLeaderboardSize
	}
	return s.accountRepo.Leaderboard(ctx, n)
}
