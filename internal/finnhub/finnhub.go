// Package finnhub provides a minimal client for the Finnhub quote API, the
// primary price source for listed equities.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client fetches the current price for an equity symbol.
type Client interface {
	GetQuote(ctx context.Context, symbol string) (float64, error)
}

// HTTPClient is the real Finnhub client.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Finnhub client with a 5 second per-request timeout.
func NewClient(apiKey string) *HTTPClient {
	return &HTTPClient{
		apiKey:  apiKey,
		baseURL: "https://finnhub.io/api/v1",
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// quoteResponse mirrors the Finnhub /quote payload. Only the current price
// is used; the remaining fields are kept for completeness.
type quoteResponse struct {
	Current       float64 `json:"c"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
}

// GetQuote returns the current price for a symbol. A zero price from the API
// is returned as-is; callers decide whether non-positive prices are usable.
func (c *HTTPClient) GetQuote(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s", c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("finnhub returned status %d for %s", resp.StatusCode, symbol)
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return 0, fmt.Errorf("decoding finnhub quote for %s: %w", symbol, err)
	}

	return quote.Current, nil
}
