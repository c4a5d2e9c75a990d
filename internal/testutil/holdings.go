package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rai-openclaw/mission-control/internal/model"
)

// StaticHoldings is an in-memory holdings.Source for testing. It returns the
// configured document, or the configured error.
type StaticHoldings struct {
	Doc model.HoldingsDocument
	Err error
}

// Load returns the configured document or error.
func (s *StaticHoldings) Load() (model.HoldingsDocument, error) {
	if s.Err != nil {
		return model.HoldingsDocument{}, s.Err
	}
	return s.Doc, nil
}

// AccountBuilder provides a fluent interface for creating test accounts.
//
// Example usage:
//
//	account := testutil.NewAccount("Brokerage A").
//	    WithStock("AAPL", 10, 1500).
//	    WithCash(2500).
//	    Build()
type AccountBuilder struct {
	account model.Account
}

// NewAccount creates an AccountBuilder for an account with the given name.
func NewAccount(name string) *AccountBuilder {
	return &AccountBuilder{account: model.Account{Name: name}}
}

// WithStock adds a stock position.
func (b *AccountBuilder) WithStock(ticker string, shares, costBasis float64) *AccountBuilder {
	b.account.Stocks = append(b.account.Stocks, model.StockPosition{
		Ticker:    ticker,
		Shares:    shares,
		CostBasis: costBasis,
	})
	return b
}

// WithOption adds an option position. Negative contracts mark a short position.
func (b *AccountBuilder) WithOption(ticker, optType string, strike float64, expiration string, contracts int, premium float64) *AccountBuilder {
	b.account.Options = append(b.account.Options, model.OptionPosition{
		Ticker:       ticker,
		Type:         optType,
		Strike:       strike,
		Expiration:   expiration,
		Contracts:    contracts,
		EntryPremium: premium,
	})
	return b
}

// WithCash adds a plain cash position.
func (b *AccountBuilder) WithCash(quantity float64) *AccountBuilder {
	b.account.Cash = append(b.account.Cash, model.CashPosition{
		Asset:    model.AssetCash,
		Quantity: quantity,
	})
	return b
}

// WithSGOV adds an SGOV cash-equivalent position in shares.
func (b *AccountBuilder) WithSGOV(shares float64) *AccountBuilder {
	b.account.Cash = append(b.account.Cash, model.CashPosition{
		Asset:    model.AssetSGOV,
		Quantity: shares,
	})
	return b
}

// WithMisc adds a misc asset position.
func (b *AccountBuilder) WithMisc(asset, assetType string, amount, costBasis float64) *AccountBuilder {
	b.account.Misc = append(b.account.Misc, model.MiscPosition{
		Asset:     asset,
		Type:      assetType,
		Amount:    amount,
		CostBasis: costBasis,
	})
	return b
}

// Build returns the assembled account.
func (b *AccountBuilder) Build() model.Account {
	return b.account
}

// Document wraps accounts into a HoldingsDocument with a fixed timestamp so
// snapshots built from it are fully deterministic.
func Document(accounts ...model.Account) model.HoldingsDocument {
	return model.HoldingsDocument{
		Accounts:    accounts,
		LastUpdated: "2026-01-15T09:30:00Z",
	}
}

// WriteHoldingsFile writes a holdings document to a temp file and returns
// its path. The file is removed when the test completes.
func WriteHoldingsFile(t *testing.T, doc model.HoldingsDocument) string {
	t.Helper()

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal holdings document: %v", err)
	}

	path := filepath.Join(t.TempDir(), "holdings.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write holdings file: %v", err)
	}
	return path
}
