package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/model"
)

// DefaultFinnhubBaseURL is the Finnhub REST API root.
const DefaultFinnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubClient fetches quotes and symbol listings from the Finnhub API.
type FinnhubClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	retry      RetryConfig
	log        zerolog.Logger
}

// NewFinnhubClient creates a Finnhub client. An empty baseURL selects DefaultFinnhubBaseURL.
func NewFinnhubClient(httpClient *http.Client, baseURL, apiKey string, retry RetryConfig, log zerolog.Logger) *FinnhubClient {
	if baseURL == "" {
		baseURL = DefaultFinnhubBaseURL
	}
	return &FinnhubClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		retry:      retry,
		log:        log,
	}
}

// finnhubQuote is the /quote response. Only the current price is used.
type finnhubQuote struct {
	Current       *float64 `json:"c"`
	PreviousClose float64  `json:"pc"`
	Timestamp     int64    `json:"t"`
}

// finnhubSymbol is one element of the /stock/symbol response.
type finnhubSymbol struct {
	Symbol        string `json:"symbol"`
	DisplaySymbol string `json:"displaySymbol"`
	Description   string `json:"description"`
	Type          string `json:"type"`
	Currency      string `json:"currency"`
}

// Quote returns the current price ("c") of symbol.
// Finnhub answers unknown symbols with a zero price; that is returned as is.
func (c *FinnhubClient) Quote(ctx context.Context, symbol string) (float64, error) {
	var q finnhubQuote
	if err := c.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &q); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", apperrors.ErrQuoteFailure, symbol, err)
	}
	if q.Current == nil {
		return 0, fmt.Errorf("%w: %s: response has no current price", apperrors.ErrQuoteFailure, symbol)
	}
	return *q.Current, nil
}

// Symbols lists the symbols traded on exchange (for example "US").
// Prices are not filled in.
func (c *FinnhubClient) Symbols(ctx context.Context, exchange string) ([]model.Listing, error) {
	var symbols []finnhubSymbol
	if err := c.get(ctx, "/stock/symbol", url.Values{"exchange": {exchange}}, &symbols); err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", apperrors.ErrQuoteFailure, exchange, err)
	}

	listings := make([]model.Listing, 0, len(symbols))
	for _, s := range symbols {
		if s.Symbol == "" {
			continue
		}
		listings = append(listings, model.Listing{Symbol: s.Symbol, Description: s.Description})
	}
	return listings, nil
}

func (c *FinnhubClient) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("token", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	resp, err := Do(ctx, c.httpClient, c.retry, c.log, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("finnhub returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode finnhub response: %w", err)
	}
	return nil
}
