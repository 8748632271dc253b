package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/papertrade/internal/model"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$1,234.50", Money(1234.5))
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "-$3.50", Money(-3.5))
	assert.Equal(t, "$0.10", Money(0.1))

	assert.Equal(t, "+$12.00", SignedMoney(12))
	assert.Equal(t, "-$3.50", SignedMoney(-3.5))
	assert.Equal(t, "$0.00", SignedMoney(0))

	assert.Equal(t, "$187.25", Price(187.25))
	assert.Equal(t, "$0.1234", Price(0.1234))
}

func TestPortfolio(t *testing.T) {
	view := &model.PortfolioView{
		Username:    "alice",
		CashBalance: 5000,
		BookValue:   1500,
		NetWorth:    6500,
		Positions: []model.Position{
			{Symbol: "AAPL", Quantity: 10, AverageCost: 100, CurrentPrice: 120, PriceAvailable: true, CostBasis: 1000, MarketValue: 1200, UnrealizedPL: 200},
			{Symbol: "GONE", Quantity: 5, AverageCost: 100, CostBasis: 500, UnrealizedPL: -500},
		},
		TotalCost:         1500,
		TotalValue:        1200,
		TotalUnrealizedPL: -300,
	}

	md := Portfolio(view)

	assert.Contains(t, md, "# Portfolio of alice")
	assert.Contains(t, md, "| AAPL | 10 | $100.00 | $120.00 | $1,000.00 | $1,200.00 | +$200.00 |")
	assert.Contains(t, md, "| GONE | 5 | $100.00 | n/a | $500.00 | $0.00 | -$500.00 |")
	assert.Contains(t, md, "**-$300.00**")
	assert.Contains(t, md, "Net worth: **$6,500.00**")
	assert.Contains(t, md, "could not be fetched")
}

func TestHistory(t *testing.T) {
	assert.Contains(t, History(nil), "No transactions yet.")

	md := History([]model.Transaction{
		{Symbol: "AAPL", Kind: model.Sell, Quantity: 5, Price: 60, ExecutedAt: time.Now()},
		{Symbol: "AAPL", Kind: model.Buy, Quantity: 5, Price: 50, ExecutedAt: time.Now()},
	})

	sell := strings.Index(md, "| sell | AAPL | 5 | $60.00 | $300.00 |")
	buy := strings.Index(md, "| buy | AAPL | 5 | $50.00 | $250.00 |")
	require.NotEqual(t, -1, sell, md)
	require.NotEqual(t, -1, buy, md)
	assert.Less(t, sell, buy)
}

func TestLeaderboard(t *testing.T) {
	assert.Contains(t, Leaderboard(nil), "No accounts yet.")

	md := Leaderboard([]model.LeaderboardEntry{
		{Rank: 1, Username: "c", CashBalance: 150000, NetWorth: 150000},
		{Rank: 2, Username: "a", CashBalance: 100000, TotalPortfolioValue: 20000, NetWorth: 120000},
	})

	assert.Contains(t, md, "| 1 | c | $150,000.00 | $0.00 | **$150,000.00** |")
	assert.Contains(t, md, "| 2 | a | $100,000.00 | $20,000.00 | **$120,000.00** |")
}

func TestTrade(t *testing.T) {
	buy := Trade(&model.TradeResult{
		Transaction:         model.Transaction{ID: "tx-1", Symbol: "AAPL", Kind: model.Buy, Quantity: 10, Price: 200},
		Total:               2000,
		CashBalance:         7000,
		TotalPortfolioValue: 3000,
		Holding:             &model.Holding{Symbol: "AAPL", Quantity: 20, AverageCost: 150},
	})
	assert.Contains(t, buy, "# Bought 10 AAPL @ $200.00")
	assert.Contains(t, buy, "20 shares at $150.00 average cost")
	assert.Contains(t, buy, "`tx-1`")

	sell := Trade(&model.TradeResult{
		Transaction: model.Transaction{Symbol: "AAPL", Kind: model.Sell, Quantity: 5, Price: 60},
		Total:       300,
		CashBalance: 10050,
	})
	assert.Contains(t, sell, "# Sold 5 AAPL @ $60.00")
	assert.Contains(t, sell, "Position closed")
}

func TestListings(t *testing.T) {
	md := Listings("US", []model.Listing{{Symbol: "AAPL", Description: "APPLE INC", Price: 190.5}})
	assert.Contains(t, md, "# Market (US)")
	assert.Contains(t, md, "| AAPL | APPLE INC | $190.50 |")

	assert.Contains(t, Listings("", nil), "No priced symbols found.")
}

func TestTerminal(t *testing.T) {
	out, err := Terminal(Quote(model.Listing{Symbol: "AAPL", Price: 190.5}), 80)
	require.NoError(t, err)
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "$190.50")
}
