// Package request defines the JSON bodies accepted by the API and the parsing
// of query parameters shared by several handlers.
package request

import (
	"fmt"
	"strconv"

	"github.com/ndewijer/papertrade/internal/apperrors"
)

// TradeRequest is the body of POST /api/trade/buy and POST /api/trade/sell.
// The price is always taken from the quote provider.
type TradeRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

// ParseLimit reads an optional non-negative "limit" query parameter.
// An empty value yields 0, which services treat as their default.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer: %q", apperrors.ErrValidation, raw)
	}
	return limit, nil
}
