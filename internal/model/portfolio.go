package model

// Holding represents an open position of an account in one symbol.
// A holding with zero quantity is never stored.
type Holding struct {
	AccountID   string  `json:"accountId"`
	Symbol      string  `json:"symbol"`
	Quantity    int64   `json:"quantity"`
	AverageCost float64 `json:"averageCost"`
}

// CostBasis returns quantity * average cost.
func (h Holding) CostBasis() float64 {
	return float64(h.Quantity) * h.AverageCost
}

// Position is a holding paired with a live price for display.
// PriceAvailable is false when the quote could not be fetched and CurrentPrice fell back to 0.
type Position struct {
	Symbol         string  `json:"symbol"`
	Quantity       int64   `json:"quantity"`
	AverageCost    float64 `json:"averageCost"`
	CurrentPrice   float64 `json:"currentPrice"`
	PriceAvailable bool    `json:"priceAvailable"`
	CostBasis      float64 `json:"costBasis"`
	MarketValue    float64 `json:"marketValue"`
	UnrealizedPL   float64 `json:"unrealizedPL"`
}

// PortfolioView is the read-only projection of an account's holdings.
//
// TotalCost and TotalValue aggregate over positions (invested cost and current market value).
// BookValue is the cached total portfolio value stored on the account, which the leaderboard uses.
type PortfolioView struct {
	AccountID         string     `json:"accountId"`
	Username          string     `json:"username"`
	CashBalance       float64    `json:"cashBalance"`
	BookValue         float64    `json:"bookValue"`
	NetWorth          float64    `json:"netWorth"`
	Positions         []Position `json:"positions"`
	TotalCost         float64    `json:"totalCost"`
	TotalValue        float64    `json:"totalValue"`
	TotalUnrealizedPL float64    `json:"totalUnrealizedPL"`
}
