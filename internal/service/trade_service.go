package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/database"
	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/quote"
	"github.com/ndewijer/papertrade/internal/repository"
	"github.com/ndewijer/papertrade/internal/validation"
)

// TradeService executes buys and sells against the ledger.
//
// Every trade runs in a single store transaction that updates cash, the
// holding, the transaction log and the cached portfolio value together.
// A trade either applies all four changes or none of them.
type TradeService struct {
	db              *sql.DB
	accountRepo     *repository.AccountRepository
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
	quoter          quote.Quoter
	log             zerolog.Logger
	now             func() time.Time
}

// NewTradeService creates a new TradeService. quoter is only used by PlaceOrder and may be nil.
func NewTradeService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
	quoter quote.Quoter,
	log zerolog.Logger,
) *TradeService {
	return &TradeService{
		db:              db,
		accountRepo:     accountRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		quoter:          quoter,
		log:             log,
		now:             time.Now,
	}
}

// PlaceOrder prices an order with the quote collaborator and executes it.
// The quote is fetched before any store transaction is opened. A failed or
// non-positive quote aborts with apperrors.ErrQuoteFailure and nothing is written.
func (s *TradeService) PlaceOrder(ctx context.Context, accountID, symbol string, kind model.TradeKind, quantity int64) (*model.TradeResult, error) {
	symbol = validation.NormalizeSymbol(symbol)
	if err := validation.ValidateTradeKind(kind); err != nil {
		return nil, err
	}
	if err := validation.ValidateOrder(accountID, symbol, quantity, 0); err != nil {
		return nil, err
	}
	if s.quoter == nil {
		return nil, fmt.Errorf("%w: no quote provider configured", apperrors.ErrQuoteFailure)
	}

	price, err := s.quoter.Quote(ctx, symbol)
	if err != nil {
		if !errors.Is(err, apperrors.ErrQuoteFailure) {
			err = fmt.Errorf("%w: %s: %v", apperrors.ErrQuoteFailure, symbol, err)
		}
		return nil, err
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: %s: no price available", apperrors.ErrQuoteFailure, symbol)
	}

	if kind == model.Buy {
		return s.Buy(ctx, accountID, symbol, quantity, price)
	}
	return s.Sell(ctx, accountID, symbol, quantity, price)
}

// Buy debits quantity * price from the account and adds the shares to its holding,
// re-averaging the holding's cost.
//
// Errors:
//   - apperrors.ErrValidation: quantity <= 0, negative or non-finite price, bad symbol,
//     or a resulting holding too large to represent
//   - apperrors.ErrAccountNotFound: no such account
//   - apperrors.ErrInsufficientFunds: cash balance below quantity * price
//   - apperrors.ErrStoreUnavailable: the store transaction failed; nothing was written
func (s *TradeService) Buy(ctx context.Context, accountID, symbol string, quantity int64, price float64) (*model.TradeResult, error) {
	symbol = validation.NormalizeSymbol(symbol)
	if err := validation.ValidateOrder(accountID, symbol, quantity, price); err != nil {
		return nil, err
	}

	total := orderTotal(quantity, price)
	var result model.TradeResult

	err := database.WithTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		accounts := s.accountRepo.WithTx(tx)
		holdings := s.holdingRepo.WithTx(tx)
		transactions := s.transactionRepo.WithTx(tx)

		cash, err := accounts.GetCashBalance(ctx, accountID)
		if err != nil {
			return storeError(err)
		}
		if !covers(cash, total) {
			return fmt.Errorf("%w: need %s, have %.2f", apperrors.ErrInsufficientFunds, total.StringFixed(2), cash)
		}

		cash = debit(cash, total)
		if err := accounts.SetCashBalance(ctx, accountID, cash); err != nil {
			return storeError(err)
		}

		holding := model.Holding{AccountID: accountID, Symbol: symbol, Quantity: quantity, AverageCost: price}
		held, err := holdings.Get(ctx, accountID, symbol)
		switch {
		case err == nil:
			if held.Quantity > math.MaxInt64-quantity {
				return &validation.Error{Fields: map[string]string{
					"quantity": fmt.Sprintf("holding of %d %s cannot grow by %d", held.Quantity, symbol, quantity),
				}}
			}
			holding.Quantity = held.Quantity + quantity
			holding.AverageCost = averageCost(held.Quantity, held.AverageCost, quantity, price)
		case !errors.Is(err, apperrors.ErrNoPosition):
			return storeError(err)
		}
		if err := holdings.Upsert(ctx, holding); err != nil {
			return storeError(err)
		}

		t, err := s.appendTransaction(ctx, transactions, accountID, symbol, model.Buy, quantity, price)
		if err != nil {
			return err
		}

		value, err := accounts.RecomputePortfolioValue(ctx, accountID)
		if err != nil {
			return storeError(err)
		}

		result = model.TradeResult{
			Transaction:         t,
			Total:               total.InexactFloat64(),
			CashBalance:         cash,
			TotalPortfolioValue: value,
			Holding:             &holding,
		}
		return nil
	})
	if err != nil {
		s.logRejected(err, model.Buy, accountID, symbol, quantity, price)
		return nil, err
	}

	s.logExecuted(&result)
	return &result, nil
}

// Sell credits quantity * price to the account and removes the shares from its
// holding. The average cost of the remaining shares is unchanged; a holding
// sold down to zero is deleted.
//
// Errors:
//   - apperrors.ErrValidation: quantity <= 0, negative or non-finite price, bad symbol
//   - apperrors.ErrAccountNotFound: no such account
//   - apperrors.ErrNoPosition: the account holds no shares of symbol
//   - apperrors.ErrInsufficientShares: fewer shares held than quantity
//   - apperrors.ErrStoreUnavailable: the store transaction failed; nothing was written
func (s *TradeService) Sell(ctx context.Context, accountID, symbol string, quantity int64, price float64) (*model.TradeResult, error) {
	symbol = validation.NormalizeSymbol(symbol)
	if err := validation.ValidateOrder(accountID, symbol, quantity, price); err != nil {
		return nil, err
	}

	total := orderTotal(quantity, price)
	var result model.TradeResult

	err := database.WithTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		accounts := s.accountRepo.WithTx(tx)
		holdings := s.holdingRepo.WithTx(tx)
		transactions := s.transactionRepo.WithTx(tx)

		cash, err := accounts.GetCashBalance(ctx, accountID)
		if err != nil {
			return storeError(err)
		}

		held, err := holdings.Get(ctx, accountID, symbol)
		if err != nil {
			return storeError(err)
		}
		if held.Quantity < quantity {
			return fmt.Errorf("%w: have %d %s, want to sell %d", apperrors.ErrInsufficientShares, held.Quantity, symbol, quantity)
		}

		cash = credit(cash, total)
		if err := accounts.SetCashBalance(ctx, accountID, cash); err != nil {
			return storeError(err)
		}

		var remaining *model.Holding
		if held.Quantity == quantity {
			if err := holdings.Delete(ctx, accountID, symbol); err != nil {
				return storeError(err)
			}
		} else {
			held.Quantity -= quantity
			if err := holdings.Upsert(ctx, held); err != nil {
				return storeError(err)
			}
			remaining = &held
		}

		t, err := s.appendTransaction(ctx, transactions, accountID, symbol, model.Sell, quantity, price)
		if err != nil {
			return err
		}

		value, err := accounts.RecomputePortfolioValue(ctx, accountID)
		if err != nil {
			return storeError(err)
		}

		result = model.TradeResult{
			Transaction:         t,
			Total:               total.InexactFloat64(),
			CashBalance:         cash,
			TotalPortfolioValue: value,
			Holding:             remaining,
		}
		return nil
	})
	if err != nil {
		s.logRejected(err, model.Sell, accountID, symbol, quantity, price)
		return nil, err
	}

	s.logExecuted(&result)
	return &result, nil
}

func (s *TradeService) appendTransaction(
	ctx context.Context,
	transactions *repository.TransactionRepository,
	accountID, symbol string,
	kind model.TradeKind,
	quantity int64,
	price float64,
) (model.Transaction, error) {
	last, err := transactions.LastTimestamp(ctx, accountID)
	if err != nil {
		return model.Transaction{}, storeError(err)
	}

	t := model.Transaction{
		ID:         uuid.New().String(),
		AccountID:  accountID,
		Symbol:     symbol,
		Kind:       kind,
		Quantity:   quantity,
		Price:      price,
		ExecutedAt: nextTimestamp(s.now(), last),
	}
	if err := transactions.Append(ctx, &t); err != nil {
		return model.Transaction{}, storeError(err)
	}
	return t, nil
}

func (s *TradeService) logExecuted(r *model.TradeResult) {
	s.log.Info().
		Str("account_id", r.Transaction.AccountID).
		Str("transaction_id", r.Transaction.ID).
		Str("type", string(r.Transaction.Kind)).
		Str("symbol", r.Transaction.Symbol).
		Int64("quantity", r.Transaction.Quantity).
		Float64("price", r.Transaction.Price).
		Float64("cash_balance", r.CashBalance).
		Float64("portfolio_value", r.TotalPortfolioValue).
		Msg("Trade executed")
}

func (s *TradeService) logRejected(err error, kind model.TradeKind, accountID, symbol string, quantity int64, price float64) {
	event := s.log.Info()
	if errors.Is(err, apperrors.ErrStoreUnavailable) {
		event = s.log.Error()
	}
	event.
		Err(err).
		Str("account_id", accountID).
		Str("type", string(kind)).
		Str("symbol", symbol).
		Int64("quantity", quantity).
		Float64("price", price).
		Msg("Trade rejected")
}
