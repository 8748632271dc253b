package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/papertrade/internal/apperrors"
)

// DefaultYahooBaseURL is the Yahoo Finance chart API root.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient fetches prices from the Yahoo Finance chart API. It needs no API key.
type YahooClient struct {
	httpClient *http.Client
	baseURL    string
	retry      RetryConfig
	log        zerolog.Logger
}

// NewYahooClient creates a Yahoo Finance client. An empty baseURL selects DefaultYahooBaseURL.
func NewYahooClient(httpClient *http.Client, baseURL string, retry RetryConfig, log zerolog.Logger) *YahooClient {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &YahooClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		retry:      retry,
		log:        log,
	}
}

// Quote returns the latest price of symbol from its five day chart.
func (c *YahooClient) Quote(ctx context.Context, symbol string) (float64, error) {
	chart, err := c.FiveDayChart(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", apperrors.ErrQuoteFailure, symbol, err)
	}

	price, ok := chart.LatestPrice()
	if !ok {
		return 0, fmt.Errorf("%w: %s: no price in chart", apperrors.ErrQuoteFailure, symbol)
	}
	return price, nil
}

// FiveDayChart fetches the last 5 days of daily closes for symbol.
func (c *YahooClient) FiveDayChart(ctx context.Context, symbol string) (Chart, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))

	resp, err := Do(ctx, c.httpClient, c.retry, c.log, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return Chart{}, err
	}
	defer resp.Body.Close()

	var raw yahooResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Chart{}, fmt.Errorf("failed to decode yahoo response (HTTP %d): %w", resp.StatusCode, err)
	}

	if raw.Chart.Error != nil {
		return Chart{}, fmt.Errorf("yahoo error: %s", raw.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return Chart{}, fmt.Errorf("yahoo returned HTTP %d", resp.StatusCode)
	}

	return parseChart(raw)
}

// parseChart converts a raw chart response, skipping null closes.
func parseChart(raw yahooResponse) (Chart, error) {
	if len(raw.Chart.Result) == 0 {
		return Chart{}, fmt.Errorf("no results returned")
	}
	result := raw.Chart.Result[0]

	chart := Chart{
		Symbol:             result.Meta.Symbol,
		Currency:           result.Meta.Currency,
		ExchangeName:       result.Meta.ExchangeName,
		RegularMarketPrice: result.Meta.RegularMarketPrice,
	}

	if len(result.Indicators.Quote) == 0 {
		return chart, nil
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return Chart{}, fmt.Errorf("mismatched data lengths")
	}

	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		chart.Closes = append(chart.Closes, ClosePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	return chart, nil
}
