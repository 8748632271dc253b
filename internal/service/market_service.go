package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/model"
	"github.com/ndewijer/papertrade/internal/quote"
	"github.com/ndewijer/papertrade/internal/validation"
)

// DefaultListingSize is how many symbols of an exchange the market listing inspects.
const DefaultListingSize = 15

// MarketService answers price lookups and exchange listings.
type MarketService struct {
	quoter quote.Quoter
	lister quote.SymbolLister
	log    zerolog.Logger
}

// NewMarketService creates a new MarketService. lister may be nil when the
// quote provider cannot list symbols.
func NewMarketService(quoter quote.Quoter, lister quote.SymbolLister, log zerolog.Logger) *MarketService {
	return &MarketService{
		quoter: quoter,
		lister: lister,
		log:    log,
	}
}

// Quote returns the current price of symbol.
func (s *MarketService) Quote(ctx context.Context, symbol string) (model.Listing, error) {
	symbol = validation.NormalizeSymbol(symbol)
	if err := validation.ValidateSymbol(symbol); err != nil {
		return model.Listing{}, err
	}
	if s.quoter == nil {
		return model.Listing{}, fmt.Errorf("%w: no quote provider configured", apperrors.ErrQuoteFailure)
	}

	price, err := s.quoter.Quote(ctx, symbol)
	if err != nil {
		return model.Listing{}, err
	}
	if price <= 0 {
		return model.Listing{}, fmt.Errorf("%w: %s: no price available", apperrors.ErrQuoteFailure, symbol)
	}
	return model.Listing{Symbol: symbol, Price: price}, nil
}

// Listings prices the first n symbols listed on exchange and returns those
// with a positive price. Symbols whose quote fails are skipped.
// n == 0 selects DefaultListingSize.
func (s *MarketService) Listings(ctx context.Context, exchange string, n int) ([]model.Listing, error) {
	if err := validation.ValidateLimit(n); err != nil {
		return nil, err
	}
	if n == 0 {
		n = DefaultListingSize
	}
	if s.lister == nil || s.quoter == nil {
		return nil, fmt.Errorf("%w: quote provider cannot list symbols", apperrors.ErrQuoteFailure)
	}

	symbols, err := s.lister.Symbols(ctx, exchange)
	if err != nil {
		return nil, err
	}
	if len(symbols) > n {
		symbols = symbols[:n]
	}

	listings := make([]model.Listing, 0, len(symbols))
	for _, l := range symbols {
		price, err := s.quoter.Quote(ctx, l.Symbol)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.log.Warn().Err(err).Str("symbol", l.Symbol).Msg("Skipping symbol without quote")
			continue
		}
		if price <= 0 {
			continue
		}
		l.Price = price
		listings = append(listings, l)
	}
	return listings, nil
}
