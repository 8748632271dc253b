package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/testutil"
	"github.com/ndewijer/papertrade/internal/version"
)

// TestPortfolioService_View tests the portfolio projection.
//
// WHY: The view is the only place live prices meet the ledger. A price
// outage must degrade the view instead of failing it.
func TestPortfolioService_View(t *testing.T) {
	ctx := context.Background()

	t.Run("prices every position", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		account := testutil.CreateAccount(t, db, 5000)
		testutil.CreateHolding(t, db, account.ID, "AAPL", 10, 100)
		testutil.CreateHolding(t, db, account.ID, "MSFT", 4, 250)
		quoter := testutil.NewMockQuoter(map[string]float64{"AAPL": 120, "MSFT": 200})
		svc := testutil.NewTestPortfolioService(t, db, quoter)

		view, err := svc.View(ctx, account.ID)
		require.NoError(t, err)

		require.Len(t, view.Positions, 2)
		aapl := view.Positions[0]
		assert.Equal(t, "AAPL", aapl.Symbol)
		assert.True(t, aapl.PriceAvailable)
		assert.Equal(t, 1000.0, aapl.CostBasis)
		assert.Equal(t, 1200.0, aapl.MarketValue)
		assert.Equal(t, 200.0, aapl.UnrealizedPL)

		msft := view.Positions[1]
		assert.Equal(t, -200.0, msft.UnrealizedPL)

		assert.Equal(t, 2000.0, view.TotalCost)
		assert.Equal(t, 2000.0, view.TotalValue)
		assert.Equal(t, 0.0, view.TotalUnrealizedPL)
		assert.Equal(t, 5000.0, view.CashBalance)
		assert.Equal(t, 2000.0, view.BookValue)
		assert.Equal(t, 7000.0, view.NetWorth)
	})

	t.Run("quote failure values the position at zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		account := testutil.CreateAccount(t, db, 5000)
		testutil.CreateHolding(t, db, account.ID, "AAPL", 10, 100)
		testutil.CreateHolding(t, db, account.ID, "GONE", 5, 20)
		quoter := testutil.NewMockQuoter(map[string]float64{"AAPL": 100})
		svc := testutil.NewTestPortfolioService(t, db, quoter)

		view, err := svc.View(ctx, account.ID)
		require.NoError(t, err)

		require.Len(t, view.Positions, 2)
		gone := view.Positions[1]
		assert.Equal(t, "GONE", gone.Symbol)
		assert.False(t, gone.PriceAvailable)
		assert.Zero(t, gone.CurrentPrice)
		assert.Zero(t, gone.MarketValue)
		assert.Equal(t, -100.0, gone.UnrealizedPL)
		assert.Equal(t, 1, quoter.Calls("GONE"))
	})

	t.Run("empty portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		account := testutil.CreateAccount(t, db, 5000)
		svc := testutil.NewTestPortfolioService(t, db, nil)

		view, err := svc.View(ctx, account.ID)
		require.NoError(t, err)

		assert.Empty(t, view.Positions)
		assert.Equal(t, 5000.0, view.NetWorth)
	})

	t.Run("unknown account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, nil)

		_, err := svc.View(ctx, testutil.MakeID())

		assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
	})
}

// TestPortfolioService_ViewDuringTrades reads the portfolio while another
// goroutine keeps buying and selling the same symbol.
//
// WHY: Cash, book value and positions must come from one ledger state. A view
// assembled from reads on either side of a commit would show a position whose
// cost basis disagrees with the cached book value.
func TestPortfolioService_ViewDuringTrades(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupFileTestDB(t)
	account := testutil.CreateAccount(t, db, 1_000_000)
	trades := testutil.NewTestTradeService(t, db, nil)
	svc := testutil.NewTestPortfolioService(t, db, nil)

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		for {
			select {
			case <-stop:
				done <- nil
				return
			default:
			}
			if _, err := trades.Buy(ctx, account.ID, "AAPL", 1, 100); err != nil {
				done <- err
				return
			}
			if _, err := trades.Sell(ctx, account.ID, "AAPL", 1, 100); err != nil {
				done <- err
				return
			}
		}
	}()

	for i := 0; i < 500; i++ {
		view, err := svc.View(ctx, account.ID)
		if !assert.NoError(t, err) {
			break
		}
		if !assert.Equal(t, view.TotalCost, view.BookValue, "view %d has %d positions, cash %.2f", i, len(view.Positions), view.CashBalance) {
			break
		}
		assert.Equal(t, 1_000_000.0, view.CashBalance+view.BookValue)
	}

	close(stop)
	require.NoError(t, <-done)
}

// TestTransactionService_History tests the transaction history.
//
// WHY: History is the audit trail of the ledger and must come back newest
// first, including trades executed within the same clock tick.
func TestTransactionService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("newest first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		trades := testutil.NewTestTradeService(t, db, nil)
		svc := testutil.NewTestTransactionService(t, db)
		account := testutil.CreateAccount(t, db, 10000)

		var ids []string
		for _, symbol := range []string{"AAA", "BBB", "CCC", "DDD"} {
			r, err := trades.Buy(ctx, account.ID, symbol, 1, 10)
			require.NoError(t, err)
			ids = append(ids, r.Transaction.ID)
		}

		history, err := svc.History(ctx, account.ID, 0)
		require.NoError(t, err)

		require.Len(t, history, 4)
		for i, tx := range history {
			assert.Equal(t, ids[len(ids)-1-i], tx.ID)
		}
		for i := 1; i < len(history); i++ {
			assert.False(t, history[i].ExecutedAt.After(history[i-1].ExecutedAt))
		}
	})

	t.Run("limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		trades := testutil.NewTestTradeService(t, db, nil)
		svc := testutil.NewTestTransactionService(t, db)
		account := testutil.CreateAccount(t, db, 10000)

		for range 5 {
			_, err := trades.Buy(ctx, account.ID, "AAPL", 1, 10)
			require.NoError(t, err)
		}

		history, err := svc.History(ctx, account.ID, 2)
		require.NoError(t, err)
		assert.Len(t, history, 2)

		_, err = svc.History(ctx, account.ID, -1)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("only the account's own trades", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		trades := testutil.NewTestTradeService(t, db, nil)
		svc := testutil.NewTestTransactionService(t, db)
		alice := testutil.CreateAccount(t, db, 10000)
		bob := testutil.CreateAccount(t, db, 10000)

		_, err := trades.Buy(ctx, alice.ID, "AAPL", 1, 10)
		require.NoError(t, err)

		history, err := svc.History(ctx, bob.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("unknown account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		_, err := svc.History(ctx, testutil.MakeID(), 0)

		assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
	})
}

// TestLeaderboardService_Top tests leaderboard ranking.
//
// WHY: Ranking is by cash plus cached portfolio value; holdings must count
// toward net worth, not just cash.
func TestLeaderboardService_Top(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by net worth", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLeaderboardService(t, db)

		a := testutil.NewAccount().WithUsername("a").WithCash(100000).Build(t, db)
		testutil.CreateHolding(t, db, a.ID, "AAPL", 200, 100)
		testutil.NewAccount().WithUsername("b").WithCash(95000).Build(t, db)
		testutil.NewAccount().WithUsername("c").WithCash(150000).Build(t, db)

		entries, err := svc.Top(ctx, 0)
		require.NoError(t, err)

		require.Len(t, entries, 3)
		assert.Equal(t, []string{"c", "a", "b"}, []string{entries[0].Username, entries[1].Username, entries[2].Username})
		assert.Equal(t, []float64{150000, 120000, 95000}, []float64{entries[0].NetWorth, entries[1].NetWorth, entries[2].NetWorth})
		assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
	})

	t.Run("ties keep creation order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLeaderboardService(t, db)
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		testutil.NewAccount().WithUsername("late").WithCreatedAt(base.Add(time.Hour)).Build(t, db)
		testutil.NewAccount().WithUsername("early").WithCreatedAt(base).Build(t, db)

		entries, err := svc.Top(ctx, 0)
		require.NoError(t, err)

		require.Len(t, entries, 2)
		assert.Equal(t, "early", entries[0].Username)
		assert.Equal(t, "late", entries[1].Username)
	})

	t.Run("defaults to ten", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLeaderboardService(t, db)
		for i := range 12 {
			testutil.CreateAccount(t, db, float64(1000*(i+1)))
		}

		entries, err := svc.Top(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 10)
		assert.Equal(t, 12000.0, entries[0].NetWorth)

		entries, err = svc.Top(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}

// TestAccountService tests signup and login.
//
// WHY: Login failures must not reveal whether a username exists.
func TestAccountService(t *testing.T) {
	ctx := context.Background()

	t.Run("signup grants the starting balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)

		account, err := svc.Signup(ctx, "alice", "secret")
		require.NoError(t, err)

		assert.Equal(t, model.DefaultStartingBalance, account.CashBalance)
		assert.Zero(t, account.TotalPortfolioValue)
		assert.NotEqual(t, "secret", account.CredentialHash)

		stored, err := svc.Get(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", stored.Username)
	})

	t.Run("duplicate username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)

		_, err := svc.Signup(ctx, "alice", "secret")
		require.NoError(t, err)
		_, err = svc.Signup(ctx, "alice", "other")

		assert.ErrorIs(t, err, apperrors.ErrDuplicateUsername)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)

		_, err := svc.Signup(ctx, "", "x")

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		testutil.AssertRowCount(t, db, "accounts", 0)
	})

	t.Run("authenticate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestAccountService(t, db)
		created := testutil.NewAccount().WithUsername("bob").WithPassword("hunter22").Build(t, db)

		account, err := svc.Authenticate(ctx, "bob", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, created.ID, account.ID)

		_, err = svc.Authenticate(ctx, "bob", "wrong")
		assert.ErrorIs(t, err, apperrors.ErrAuthFailure)

		_, err = svc.Authenticate(ctx, "nobody", "hunter22")
		assert.ErrorIs(t, err, apperrors.ErrAuthFailure)
		assert.NotErrorIs(t, err, apperrors.ErrAccountNotFound)
	})
}

func TestMarketService(t *testing.T) {
	ctx := context.Background()

	t.Run("quote normalizes the symbol", func(t *testing.T) {
		svc := testutil.NewTestMarketService(t, testutil.NewMockQuoter(map[string]float64{"AAPL": 190}))

		listing, err := svc.Quote(ctx, " aapl")
		require.NoError(t, err)
		assert.Equal(t, model.Listing{Symbol: "AAPL", Price: 190}, listing)
	})

	t.Run("zero price is a quote failure", func(t *testing.T) {
		svc := testutil.NewTestMarketService(t, testutil.NewMockQuoter(map[string]float64{"DEAD": 0}))

		_, err := svc.Quote(ctx, "DEAD")
		assert.ErrorIs(t, err, apperrors.ErrQuoteFailure)
	})

	t.Run("listings skip unpriced symbols", func(t *testing.T) {
		quoter := testutil.NewMockQuoter(map[string]float64{"AAPL": 190, "ZERO": 0, "MSFT": 410}).
			WithListing(
				model.Listing{Symbol: "AAPL", Description: "APPLE INC"},
				model.Listing{Symbol: "ZERO", Description: "NO TRADES"},
				model.Listing{Symbol: "FAIL", Description: "NO QUOTE"},
				model.Listing{Symbol: "MSFT", Description: "MICROSOFT CORP"},
				model.Listing{Symbol: "IBM", Description: "PAST THE LIMIT"},
			)
		svc := testutil.NewTestMarketService(t, quoter)

		listings, err := svc.Listings(ctx, "US", 4)
		require.NoError(t, err)

		require.Len(t, listings, 2)
		assert.Equal(t, "AAPL", listings[0].Symbol)
		assert.Equal(t, "APPLE INC", listings[0].Description)
		assert.Equal(t, 410.0, listings[1].Price)
		assert.Zero(t, quoter.Calls("IBM"))
	})
}

func TestSystemService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSystemService(t, db)

	require.NoError(t, svc.CheckHealth())

	info, err := svc.CheckVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, version.Version, info.AppVersion)
	assert.Equal(t, int64(1), info.DbVersion)
}
