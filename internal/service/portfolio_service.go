package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/papertrade/internal/database"
	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/quote"
	"github.com/ndewijer/papertrade/internal/repository"
)

// maxConcurrentQuotes bounds the quote requests a single portfolio view issues at once.
const maxConcurrentQuotes = 4

// PortfolioService builds the read-only portfolio view of an account.
type PortfolioService struct {
	db          *sql.DB
	accountRepo *repository.AccountRepository
	holdingRepo *repository.HoldingRepository
	quoter      quote.Quoter
	log         zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService. A nil quoter values every position at 0.
func NewPortfolioService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	holdingRepo *repository.HoldingRepository,
	quoter quote.Quoter,
	log zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		db:          db,
		accountRepo: accountRepo,
		holdingRepo: holdingRepo,
		quoter:      quoter,
		log:         log,
	}
}

// View returns the account's holdings paired with live prices.
//
// The account and its holdings are read in one store transaction, which is
// committed before any quote is requested. Positions are then priced
// concurrently. A symbol whose quote fails is shown with a current price of 0
// and PriceAvailable=false; quote failures never fail the view.
func (s *PortfolioService) View(ctx context.Context, accountID string) (*model.PortfolioView, error) {
	var (
		account  model.Account
		holdings []model.Holding
	)
	err := database.WithTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		if account, err = s.accountRepo.WithTx(tx).GetByID(ctx, accountID); err != nil {
			return err
		}
		holdings, err = s.holdingRepo.WithTx(tx).ListByAccount(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	positions := make([]model.Position, len(holdings))
	for i, h := range holdings {
		positions[i] = model.Position{
			Symbol:      h.Symbol,
			Quantity:    h.Quantity,
			AverageCost: h.AverageCost,
			CostBasis:   h.CostBasis(),
		}
	}

	if s.quoter != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentQuotes)

		for i := range positions {
			g.Go(func() error {
				p := &positions[i]
				price, err := s.quoter.Quote(gctx, p.Symbol)
				if err != nil || price < 0 {
					if err == nil {
						err = errors.New("negative price")
					}
					s.log.Warn().Err(err).Str("symbol", p.Symbol).Msg("Price unavailable, valuing position at 0")
					return nil
				}
				p.CurrentPrice = price
				p.PriceAvailable = true
				return nil
			})
		}
		_ = g.Wait()
	}

	view := &model.PortfolioView{
		AccountID:   account.ID,
		Username:    account.Username,
		CashBalance: account.CashBalance,
		BookValue:   account.TotalPortfolioValue,
		NetWorth:    account.NetWorth(),
		Positions:   positions,
	}

	for i := range positions {
		p := &positions[i]
		p.MarketValue = float64(p.Quantity) * p.CurrentPrice
		p.UnrealizedPL = p.MarketValue - p.CostBasis

		view.TotalCost += p.CostBasis
		view.TotalValue += p.MarketValue
		view.TotalUnrealizedPL += p.UnrealizedPL
	}

	return view, nil
}
