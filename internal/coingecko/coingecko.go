// Package coingecko provides a client for the CoinGecko simple price API,
// the price source for crypto assets.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client fetches the current USD price for a CoinGecko asset identifier
// (e.g. "ethereum", not "ETH"; symbol-to-identifier mapping is the caller's
// concern).
type Client interface {
	GetQuote(ctx context.Context, id string) (float64, error)
}

// HTTPClient is the real CoinGecko client.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a CoinGecko client with a 10 second per-request timeout.
func NewClient() *HTTPClient {
	return &HTTPClient{
		baseURL: "https://api.coingecko.com",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetQuote returns the USD price for an asset identifier. An identifier
// CoinGecko does not know yields zero with no error; callers filter
// non-positive prices.
func (c *HTTPClient) GetQuote(ctx context.Context, id string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/v3/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("coingecko returned status %d for %s", resp.StatusCode, id)
	}

	var prices map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return 0, fmt.Errorf("decoding coingecko price for %s: %w", id, err)
	}

	return prices[id]["usd"], nil
}
