package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/model"
)

// MockQuoter is a quote.Quoter and quote.SymbolLister returning fixed prices.
// Symbols without a configured price fail with apperrors.ErrQuoteFailure.
// It is safe for concurrent use.
type MockQuoter struct {
	mu      sync.Mutex
	prices  map[string]float64
	listing []model.Listing
	calls   map[string]int
}

// NewMockQuoter creates a MockQuoter with the given prices.
func NewMockQuoter(prices map[string]float64) *MockQuoter {
	m := &MockQuoter{
		prices: make(map[string]float64, len(prices)),
		calls:  make(map[string]int),
	}
	for symbol, price := range prices {
		m.prices[symbol] = price
	}
	return m
}

// WithPrice sets the price of symbol.
func (m *MockQuoter) WithPrice(symbol string, price float64) *MockQuoter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = price
	return m
}

// WithListing sets the symbols returned by Symbols.
func (m *MockQuoter) WithListing(listing ...model.Listing) *MockQuoter {
	m.listing = listing
	return m
}

// Quote implements quote.Quoter.
func (m *MockQuoter) Quote(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[symbol]++
	price, ok := m.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %s: mock has no price", apperrors.ErrQuoteFailure, symbol)
	}
	return price, nil
}

// Symbols implements quote.SymbolLister.
func (m *MockQuoter) Symbols(_ context.Context, _ string) ([]model.Listing, error) {
	return m.listing, nil
}

// Calls returns how often symbol was quoted.
func (m *MockQuoter) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}
