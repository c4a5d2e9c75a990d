package testutil

import (
	"context"
	"fmt"
	"sync"
)

// MockQuoteClient is a mock quote provider for testing. It satisfies the
// finnhub, yahoo, and coingecko Client interfaces, which share the same
// GetQuote signature.
//
// Prices maps symbol (or CoinGecko identifier) to the price to return.
// Errs maps symbols to per-symbol errors; Err fails every call.
type MockQuoteClient struct {
	Prices map[string]float64
	Errs   map[string]error
	Err    error

	mu    sync.Mutex
	calls []string
}

// NewMockQuoteClient creates a mock returning the given prices.
func NewMockQuoteClient(prices map[string]float64) *MockQuoteClient {
	return &MockQuoteClient{Prices: prices}
}

// GetQuote records the call and returns the configured price or error.
// Symbols with no configured price return zero, which refresh logic treats
// as unusable.
func (m *MockQuoteClient) GetQuote(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}
	if err, ok := m.Errs[symbol]; ok {
		return 0, err
	}
	return m.Prices[symbol], nil
}

// Calls returns the symbols requested so far, in call order.
func (m *MockQuoteClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CalledWith reports whether a symbol was requested.
func (m *MockQuoteClient) CalledWith(symbol string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.calls {
		if call == symbol {
			return true
		}
	}
	return false
}

// WithError configures the mock to fail every call.
func (m *MockQuoteClient) WithError(err error) *MockQuoteClient {
	m.Err = err
	return m
}

// WithSymbolError configures the mock to fail for one symbol only.
func (m *MockQuoteClient) WithSymbolError(symbol string, err error) *MockQuoteClient {
	if m.Errs == nil {
		m.Errs = make(map[string]error)
	}
	m.Errs[symbol] = err
	return m
}

// FailingErr is a convenience error for provider failure tests.
var FailingErr = fmt.Errorf("provider unavailable")
