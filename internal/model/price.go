package model

import "time"

// Price sources, recorded on every cached entry so consumers can tell where
// a price came from.
const (
	SourceFinnhub    = "finnhub"
	SourceYahoo      = "yahoo"
	SourceCoinGecko  = "coingecko"
	SourceConstant   = "constant"
	SourceLegacy     = "legacy"
	SourceUnresolved = "unresolved"
)

// Asset classes used to partition the price cache document.
const (
	ClassStocks = "stocks"
	ClassCrypto = "crypto"
)

// UnresolvedPrice is the sentinel returned for symbols with no live price and
// no fixed constant. Valuation never fails on an unknown symbol; consumers
// must treat this value explicitly.
const UnresolvedPrice float64 = -1

// PriceEntry is the last-known price for one instrument.
type PriceEntry struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Source    string    `json:"source"`
	Class     string    `json:"class"`
	Timestamp time.Time `json:"timestamp"`
}

// PriceHistoryRecord is one row of the persisted refresh history.
type PriceHistoryRecord struct {
	ID         string    `json:"id"`
	RunID      string    `json:"run_id"`
	Symbol     string    `json:"symbol"`
	AssetClass string    `json:"asset_class"`
	Price      float64   `json:"price"`
	Source     string    `json:"source"`
	FetchedAt  time.Time `json:"fetched_at"`
}
