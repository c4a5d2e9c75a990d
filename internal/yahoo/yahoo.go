// Package yahoo provides a client for the Yahoo Finance chart API, used for
// mutual funds and other symbols Finnhub does not quote reliably.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client fetches the current price for a symbol.
type Client interface {
	GetQuote(ctx context.Context, symbol string) (float64, error)
}

// FinanceClient is the real Yahoo Finance client.
type FinanceClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFinanceClient creates a Yahoo Finance client with a 10 second
// per-request timeout.
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		baseURL: "https://query1.finance.yahoo.com",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// chartResponse mirrors the slice of the Yahoo chart payload this client
// reads: the regular market price from the result metadata, plus the API
// error field.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

// GetQuote returns the regular market price for a symbol.
func (c *FinanceClient) GetQuote(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	// Yahoo blocks requests without a browser-like User-Agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var response chartResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return 0, fmt.Errorf("decoding yahoo chart for %s: %w", symbol, err)
	}

	if response.Chart.Error != nil {
		return 0, fmt.Errorf("yahoo error for %s: %s", symbol, *response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return 0, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	return response.Chart.Result[0].Meta.RegularMarketPrice, nil
}
