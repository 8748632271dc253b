package quote

import "time"

// yahooResponse is the raw JSON shape of the Yahoo Finance chart API.
// Price arrays hold pointers because Yahoo reports missing data points as null.
type yahooResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ClosePoint is one daily close of a chart.
type ClosePoint struct {
	Date  time.Time
	Close float64
}

// Chart is the parsed form of a Yahoo chart response.
type Chart struct {
	Symbol             string
	Currency           string
	ExchangeName       string
	RegularMarketPrice float64
	Closes             []ClosePoint
}

// LatestPrice returns the regular market price, falling back to the most
// recent close when Yahoo did not report one.
func (c Chart) LatestPrice() (float64, bool) {
	if c.RegularMarketPrice > 0 {
		return c.RegularMarketPrice, true
	}
	for i := len(c.Closes) - 1; i >= 0; i-- {
		if c.Closes[i].Close > 0 {
			return c.Closes[i].Close, true
		}
	}
	return 0, false
}
