// Package quote provides the market data collaborators: clients that turn a
// ticker symbol into a current price, and an optional cache in front of them.
package quote

import (
	"context"

	"github.com/ndewijer/papertrade/internal/model"
)

// Quoter returns the current price of a symbol.
// Every failure is reported wrapped in apperrors.ErrQuoteFailure.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}

// SymbolLister lists the symbols traded on an exchange.
type SymbolLister interface {
	Symbols(ctx context.Context, exchange string) ([]model.Listing, error)
}

// QuoterFunc adapts a function to the Quoter interface.
type QuoterFunc func(ctx context.Context, symbol string) (float64, error)

// Quote calls f.
func (f QuoterFunc) Quote(ctx context.Context, symbol string) (float64, error) {
	return f(ctx, symbol)
}
