package model

import "time"

// TradeKind is the side of an executed trade.
type TradeKind string

const (
	Buy  TradeKind = "buy"
	Sell TradeKind = "sell"
)

// Valid reports whether k is one of the known trade kinds.
func (k TradeKind) Valid() bool {
	return k == Buy || k == Sell
}

// Transaction represents an executed buy or sell. Transactions are append-only.
type Transaction struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"accountId"`
	Symbol     string    `json:"symbol"`
	Kind       TradeKind `json:"type"`
	Quantity   int64     `json:"quantity"`
	Price      float64   `json:"price"`
	ExecutedAt time.Time `json:"timestamp"`
}

// Total returns quantity * price.
func (t Transaction) Total() float64 {
	return float64(t.Quantity) * t.Price
}

// TradeResult describes the ledger state right after a committed trade.
// Holding is nil when the trade closed the position.
type TradeResult struct {
	Transaction         Transaction `json:"transaction"`
	Total               float64     `json:"total"`
	CashBalance         float64     `json:"cashBalance"`
	TotalPortfolioValue float64     `json:"totalPortfolioValue"`
	Holding             *Holding    `json:"holding,omitempty"`
}
