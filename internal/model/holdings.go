package model

// Option contract types.
const (
	OptionCall = "CALL"
	OptionPut  = "PUT"
)

// Cash-equivalent asset names recognized by the aggregator.
const (
	AssetCash = "Cash"
	AssetSGOV = "SGOV"
)

// StockPosition represents a single stock or ETF holding within one account.
// CostBasis is the total dollars paid for the position, not a per-share price.
// JSON tags match the holdings document produced by the data layer.
type StockPosition struct {
	Ticker    string  `json:"Ticker"`
	Shares    float64 `json:"Shares"`
	CostBasis float64 `json:"Cost Basis"`
}

// OptionPosition represents an option holding within one account.
// The sign of Contracts encodes direction: positive contracts are long
// positions (assets), negative contracts are short positions (obligations).
type OptionPosition struct {
	Ticker       string  `json:"Ticker"`
	Type         string  `json:"Type"`
	Strike       float64 `json:"Strike"`
	Expiration   string  `json:"Expiration"`
	Contracts    int     `json:"Contracts"`
	EntryPremium float64 `json:"Entry Premium"`
}

// CashPosition represents cash or a cash-equivalent instrument held in one
// account. Asset is either "Cash" (USD at face value) or "SGOV" (shares of a
// fixed-NAV treasury ETF).
type CashPosition struct {
	Asset    string  `json:"Asset"`
	Quantity float64 `json:"Quantity"`
}

// MiscPosition is a catch-all for assets outside the stock/option/cash
// categories, typically crypto. CostBasis doubles as the valuation fallback
// when no live price is available.
type MiscPosition struct {
	Asset     string  `json:"Asset"`
	Type      string  `json:"Type"`
	Amount    float64 `json:"Amount"`
	CostBasis float64 `json:"Cost Basis"`
}

// Account holds all positions for a single brokerage account. Accounts are
// read-only inputs to aggregation and are never mutated.
type Account struct {
	Name    string           `json:"name"`
	Stocks  []StockPosition  `json:"stocks_etfs"`
	Options []OptionPosition `json:"options"`
	Cash    []CashPosition   `json:"cash"`
	Misc    []MiscPosition   `json:"misc"`
}

// HoldingsDocument is the full holdings source document: all accounts plus
// the timestamp the document was last updated (RFC 3339 string, may be empty).
type HoldingsDocument struct {
	Accounts    []Account `json:"accounts"`
	LastUpdated string    `json:"last_updated"`
}
