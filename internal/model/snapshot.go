package model

import "time"

// AccountContribution records one account's share of an aggregated position.
// Contributions are kept in input order so the snapshot is deterministic for
// a given holdings document.
type AccountContribution struct {
	Account   string  `json:"account"`
	Shares    float64 `json:"shares"`
	CostBasis float64 `json:"cost_basis"`
}

// AggregatedStock is the consolidated per-ticker view of a stock or ETF
// across all accounts. Shares and cost basis are summed, never averaged;
// per-share cost is derived only after summation.
//
// When the price is unresolved (UnresolvedPrice), TotalValue carries the
// shares * -1 sentinel rather than zero so downstream consumers can detect
// the unpriced position instead of silently under-reporting.
type AggregatedStock struct {
	Ticker         string                `json:"ticker"`
	TotalShares    float64               `json:"total_shares"`
	TotalCostBasis float64               `json:"total_cost_basis"`
	TotalValue     float64               `json:"total_value"`
	Price          float64               `json:"price"`
	TotalReturnPct float64               `json:"total_return_pct"`
	Accounts       []AccountContribution `json:"accounts"`
}

// AggregatedOption is a single option line item. Options are not merged
// across accounts; each account's position is listed separately. Negative
// TotalContracts marks a short position, and the entry/current values keep
// that sign (a short position is an obligation, not an asset).
//
// CurrentValue equals TotalEntryValue: positions are marked to entry premium
// rather than a live option price. Known simplification, kept deliberately.
type AggregatedOption struct {
	Ticker          string  `json:"ticker"`
	Type            string  `json:"type"`
	Strike          float64 `json:"strike"`
	Expiration      string  `json:"expiration"`
	TotalContracts  int     `json:"total_contracts"`
	TotalEntryValue float64 `json:"total_entry_value"`
	CurrentValue    float64 `json:"current_value"`
	Account         string  `json:"account"`
	Note            string  `json:"note"`
}

// CashSummary totals cash and SGOV across all accounts. SGOV is always
// valued at its fixed NAV, never at a live quote.
type CashSummary struct {
	CashTotal  float64 `json:"cash_total"`
	SgovTotal  float64 `json:"sgov_total"`
	SgovShares float64 `json:"sgov_shares"`
}

// AggregatedMisc is a single misc-asset line item (no cross-account merge).
// CurrentValue is amount * live price when one resolves, otherwise the
// record's own cost basis.
type AggregatedMisc struct {
	Asset        string  `json:"asset"`
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	Price        float64 `json:"price"`
	CostBasis    float64 `json:"cost_basis"`
	CurrentValue float64 `json:"current_value"`
	Account      string  `json:"account"`
}

// SnapshotTotals holds the per-category and grand totals of a snapshot.
type SnapshotTotals struct {
	StocksETFs      float64 `json:"stocks_etfs"`
	Options         float64 `json:"options"`
	CashEquivalents float64 `json:"cash_equivalents"`
	Misc            float64 `json:"misc"`
	GrandTotal      float64 `json:"grand_total"`
}

// PortfolioSnapshot is the fully-computed consolidated portfolio view. It is
// a plain value recomputed on every request; consumers must not mutate it.
type PortfolioSnapshot struct {
	Stocks         []AggregatedStock  `json:"stocks"`
	Options        []AggregatedOption `json:"options"`
	Cash           CashSummary        `json:"cash"`
	Misc           []AggregatedMisc   `json:"misc"`
	Totals         SnapshotTotals     `json:"totals"`
	SkippedRecords int                `json:"skipped_records"`
	AsOf           time.Time          `json:"as_of"`
}
