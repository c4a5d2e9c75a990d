package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/rai-openclaw/mission-control/internal/holdings"
	"github.com/rai-openclaw/mission-control/internal/model"
	"github.com/rai-openclaw/mission-control/internal/pricestore"
)

// optionMultiplier is the standard 100-share contract multiplier.
const optionMultiplier = 100

// AggregationService merges raw per-account holdings into the consolidated
// portfolio snapshot. It holds no state of its own: every BuildSnapshot call
// loads holdings fresh and reads whatever price snapshot is current.
type AggregationService struct {
	source   holdings.Source
	resolver *pricestore.Resolver
}

// NewAggregationService creates a new AggregationService with the provided
// holdings source and price resolver.
func NewAggregationService(source holdings.Source, resolver *pricestore.Resolver) *AggregationService {
	return &AggregationService{
		source:   source,
		resolver: resolver,
	}
}

// BuildSnapshot loads all accounts and computes the consolidated portfolio
// snapshot. A holdings load failure is fatal and surfaces to the caller;
// individual malformed records are skipped and counted instead.
//
// Valuation is best-effort by design: a stock with no resolvable price keeps
// the -1 sentinel in its value (shares * -1) so consumers can flag it, and a
// misc asset with no price falls back to its own cost basis.
func (s *AggregationService) BuildSnapshot() (model.PortfolioSnapshot, error) {
	doc, err := s.source.Load()
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	snapshot := model.PortfolioSnapshot{
		Options: []model.AggregatedOption{},
		Misc:    []model.AggregatedMisc{},
		AsOf:    documentTime(doc),
	}

	// One price snapshot is pinned for the whole computation, so a refresh
	// landing mid-aggregation cannot mix two price generations in one view.
	prices := s.resolver.Current()

	stocksByTicker := make(map[string]*model.AggregatedStock)

	for _, account := range doc.Accounts {
		s.aggregateStocks(account, prices, stocksByTicker, &snapshot)
		s.aggregateOptions(account, &snapshot)
		s.aggregateCash(account, &snapshot)
	}

	// Misc assets are processed after all per-account categories, matching
	// the order contributions accumulate in the snapshot.
	for _, account := range doc.Accounts {
		s.aggregateMisc(account, prices, &snapshot)
	}

	snapshot.Stocks = finishStocks(stocksByTicker)

	for _, stock := range snapshot.Stocks {
		snapshot.Totals.StocksETFs += stock.TotalValue
	}
	for _, opt := range snapshot.Options {
		snapshot.Totals.Options += opt.CurrentValue
	}
	for _, misc := range snapshot.Misc {
		snapshot.Totals.Misc += misc.CurrentValue
	}
	snapshot.Totals.CashEquivalents = snapshot.Cash.CashTotal + snapshot.Cash.SgovTotal
	snapshot.Totals.GrandTotal = snapshot.Totals.StocksETFs +
		snapshot.Totals.Options +
		snapshot.Totals.CashEquivalents +
		snapshot.Totals.Misc

	return snapshot, nil
}

func (s *AggregationService) aggregateStocks(account model.Account, prices *pricestore.Snapshot, byTicker map[string]*model.AggregatedStock, snapshot *model.PortfolioSnapshot) {
	for _, stock := range account.Stocks {
		if stock.Ticker == "" {
			snapshot.SkippedRecords++
			continue
		}

		agg, ok := byTicker[stock.Ticker]
		if !ok {
			price, _ := prices.Resolve(stock.Ticker)
			agg = &model.AggregatedStock{
				Ticker:   stock.Ticker,
				Price:    price,
				Accounts: []model.AccountContribution{},
			}
			byTicker[stock.Ticker] = agg
		}

		agg.TotalShares += stock.Shares
		agg.TotalCostBasis += stock.CostBasis
		agg.Accounts = append(agg.Accounts, model.AccountContribution{
			Account:   account.Name,
			Shares:    stock.Shares,
			CostBasis: stock.CostBasis,
		})
	}
}

func (s *AggregationService) aggregateOptions(account model.Account, snapshot *model.PortfolioSnapshot) {
	for _, opt := range account.Options {
		if opt.Ticker == "" {
			snapshot.SkippedRecords++
			continue
		}

		// Sign preserved: short positions (negative contracts) contribute
		// negative notional.
		notional := float64(opt.Contracts) * opt.EntryPremium * optionMultiplier

		snapshot.Options = append(snapshot.Options, model.AggregatedOption{
			Ticker:          opt.Ticker,
			Type:            opt.Type,
			Strike:          opt.Strike,
			Expiration:      opt.Expiration,
			TotalContracts:  opt.Contracts,
			TotalEntryValue: notional,
			CurrentValue:    notional,
			Account:         account.Name,
			Note:            fmt.Sprintf("%d contracts @ $%g", opt.Contracts, opt.EntryPremium),
		})
	}
}

func (s *AggregationService) aggregateCash(account model.Account, snapshot *model.PortfolioSnapshot) {
	for _, cash := range account.Cash {
		switch cash.Asset {
		case model.AssetCash:
			snapshot.Cash.CashTotal += cash.Quantity
		case model.AssetSGOV:
			// SGOV is valued at its fixed NAV regardless of any live entry.
			snapshot.Cash.SgovShares += cash.Quantity
			snapshot.Cash.SgovTotal += cash.Quantity * pricestore.SGOVNav
		default:
			snapshot.SkippedRecords++
		}
	}
}

func (s *AggregationService) aggregateMisc(account model.Account, prices *pricestore.Snapshot, snapshot *model.PortfolioSnapshot) {
	for _, misc := range account.Misc {
		if misc.Asset == "" {
			snapshot.SkippedRecords++
			continue
		}

		price, _ := prices.Resolve(misc.Asset)

		// Misc assets frequently lack a price source, so their safe default
		// is the recorded cost basis, never zero or the -1 sentinel.
		value := misc.CostBasis
		if price > 0 {
			value = misc.Amount * price
		}

		snapshot.Misc = append(snapshot.Misc, model.AggregatedMisc{
			Asset:        misc.Asset,
			Type:         misc.Type,
			Amount:       misc.Amount,
			Price:        price,
			CostBasis:    misc.CostBasis,
			CurrentValue: value,
			Account:      account.Name,
		})
	}
}

// finishStocks computes the derived valuation fields and returns the stocks
// sorted by ticker so identical inputs always produce identical snapshots.
func finishStocks(byTicker map[string]*model.AggregatedStock) []model.AggregatedStock {
	tickers := make([]string, 0, len(byTicker))
	for ticker := range byTicker {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	stocks := make([]model.AggregatedStock, 0, len(tickers))
	for _, ticker := range tickers {
		agg := byTicker[ticker]

		// An unresolved price (-1) flows into the value on purpose so the
		// position reads as flagged rather than worthless.
		agg.TotalValue = agg.TotalShares * agg.Price

		costPerShare := 0.0
		if agg.TotalShares > 0 {
			costPerShare = agg.TotalCostBasis / agg.TotalShares
		}
		if costPerShare > 0 {
			agg.TotalReturnPct = (agg.Price - costPerShare) / costPerShare * 100
		}

		stocks = append(stocks, *agg)
	}
	return stocks
}

// documentTime returns the holdings document's last_updated timestamp when
// it parses, otherwise the current time. The document is written with a
// zone-less ISO 8601 timestamp, so the lenient cache-file parsing applies
// here too.
func documentTime(doc model.HoldingsDocument) time.Time {
	if doc.LastUpdated != "" {
		if t := pricestore.ParseTimestamp(doc.LastUpdated); !t.IsZero() {
			return t
		}
	}
	return time.Now().UTC()
}
