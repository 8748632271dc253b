package model

import "time"

// DefaultStartingBalance is the cash every new account receives when no other
// starting balance is configured.
const DefaultStartingBalance = 10000.0

// Account represents a trading account from the database.
// TotalPortfolioValue is the cached book value of all holdings (sum of quantity * average cost).
type Account struct {
	ID                  string    `json:"id"`
	Username            string    `json:"username"`
	CredentialHash      string    `json:"-"`
	CashBalance         float64   `json:"cashBalance"`
	TotalPortfolioValue float64   `json:"totalPortfolioValue"`
	CreatedAt           time.Time `json:"createdAt"`
}

// NetWorth returns cash plus the cached portfolio value.
func (a Account) NetWorth() float64 {
	return a.CashBalance + a.TotalPortfolioValue
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank                int     `json:"rank"`
	AccountID           string  `json:"accountId"`
	Username            string  `json:"username"`
	CashBalance         float64 `json:"cashBalance"`
	TotalPortfolioValue float64 `json:"totalPortfolioValue"`
	NetWorth            float64 `json:"netWorth"`
}
