package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rai-openclaw/mission-control/internal/apperrors"
	"github.com/rai-openclaw/mission-control/internal/coingecko"
	"github.com/rai-openclaw/mission-control/internal/finnhub"
	"github.com/rai-openclaw/mission-control/internal/holdings"
	"github.com/rai-openclaw/mission-control/internal/model"
	"github.com/rai-openclaw/mission-control/internal/pricestore"
	"github.com/rai-openclaw/mission-control/internal/repository"
	"github.com/rai-openclaw/mission-control/internal/yahoo"
)

// mutualFunds is the allow-list of symbols routed to Yahoo Finance instead
// of Finnhub, which does not quote mutual funds on the free tier.
var mutualFunds = map[string]bool{
	"VSEQX": true,
	"VTCLX": true,
	"VTMSX": true,
	"VIG":   true,
	"VYM":   true,
	"VXUS":  true,
}

// cryptoIDs maps ticker-style crypto symbols to CoinGecko asset identifiers.
// Symbols not in the table fall back to their lower-cased form.
var cryptoIDs = map[string]string{
	"ETH": "ethereum",
	"BTC": "bitcoin",
	"SOL": "solana",
}

// SymbolSet is the set of symbols to refresh, partitioned by asset class.
type SymbolSet struct {
	Equities map[string]bool
	Crypto   map[string]bool
}

// RefreshResult summarizes one refresh run. A run with some failed symbols
// is still a success; Failed lists the symbols that were left out of the new
// snapshot.
type RefreshResult struct {
	RunID   string   `json:"run_id"`
	Updated int      `json:"prices_updated"`
	Stocks  int      `json:"stocks"`
	Crypto  int      `json:"crypto"`
	Failed  []string `json:"failed,omitempty"`
}

// RefreshService orchestrates fetching current prices from the quote
// providers and publishing a new price snapshot. Each symbol fetch is
// isolated: one hung or failing provider call never blocks or corrupts the
// rest of the run.
type RefreshService struct {
	source      holdings.Source
	store       *pricestore.Store
	cachePath   string
	finnhub     finnhub.Client
	yahoo       yahoo.Client
	coingecko   coingecko.Client
	history     *repository.PriceHistoryRepository
	timeout     time.Duration
	maxParallel int
}

// NewRefreshService creates a new RefreshService. The history repository may
// be nil to disable refresh-run persistence; cachePath may be empty to
// disable cache-file writes.
func NewRefreshService(
	source holdings.Source,
	store *pricestore.Store,
	cachePath string,
	finnhubClient finnhub.Client,
	yahooClient yahoo.Client,
	coingeckoClient coingecko.Client,
	history *repository.PriceHistoryRepository,
	timeout time.Duration,
	maxParallel int,
) *RefreshService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if maxParallel <= 0 {
		maxParallel = 8
	}
	return &RefreshService{
		source:      source,
		store:       store,
		cachePath:   cachePath,
		finnhub:     finnhubClient,
		yahoo:       yahooClient,
		coingecko:   coingeckoClient,
		history:     history,
		timeout:     timeout,
		maxParallel: maxParallel,
	}
}

// RefreshPrices collects the symbol set from the current holdings document
// and refreshes it. Fails only if holdings cannot be loaded.
func (s *RefreshService) RefreshPrices(ctx context.Context) (RefreshResult, error) {
	doc, err := s.source.Load()
	if err != nil {
		return RefreshResult{}, err
	}
	return s.RefreshSymbols(ctx, CollectSymbols(doc)), nil
}

// CollectSymbols extracts the refreshable symbol set from a holdings
// document: stock tickers (minus cash equivalents, with SGOV re-added so a
// live quote is cached even though valuation never uses it) and misc assets
// as crypto.
func CollectSymbols(doc model.HoldingsDocument) SymbolSet {
	set := SymbolSet{
		Equities: make(map[string]bool),
		Crypto:   make(map[string]bool),
	}
	for _, account := range doc.Accounts {
		for _, stock := range account.Stocks {
			if stock.Ticker != "" && stock.Ticker != model.AssetSGOV && stock.Ticker != model.AssetCash {
				set.Equities[stock.Ticker] = true
			}
		}
		for _, misc := range account.Misc {
			if misc.Asset != "" {
				set.Crypto[misc.Asset] = true
			}
		}
	}
	set.Equities[model.AssetSGOV] = true
	return set
}

// RefreshSymbols fetches current prices for every symbol in the set with
// bounded parallelism and publishes the results as a new snapshot in a
// single atomic swap. Only positive prices enter the snapshot; a failed,
// timed-out, or non-positive fetch leaves its symbol absent so the
// resolver's constant/unresolved fallback applies on the next read.
func (s *RefreshService) RefreshSymbols(ctx context.Context, set SymbolSet) RefreshResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		entries = make(map[string]model.PriceEntry)
		failed  []string
	)

	record := func(symbol string, entry model.PriceEntry, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			log.Printf("price refresh: %s: %v", symbol, err)
			failed = append(failed, symbol)
			return
		}
		entries[symbol] = entry
	}

	// Fetch errors are absorbed per symbol, so the group's error result is
	// always nil; it is used purely as a bounded worker pool.
	g := new(errgroup.Group)
	g.SetLimit(s.maxParallel)

	for symbol := range set.Equities {
		symbol := symbol
		g.Go(func() error {
			entry, err := s.fetchEquity(ctx, symbol)
			record(symbol, entry, err)
			return nil
		})
	}
	for symbol := range set.Crypto {
		symbol := symbol
		g.Go(func() error {
			entry, err := s.fetchCrypto(ctx, symbol)
			record(symbol, entry, err)
			return nil
		})
	}
	_ = g.Wait()

	result := RefreshResult{
		RunID:   uuid.NewString(),
		Updated: len(entries),
		Failed:  failed,
	}
	for _, entry := range entries {
		if entry.Class == model.ClassCrypto {
			result.Crypto++
		} else {
			result.Stocks++
		}
	}
	fetched := entryList(entries)

	// Cached entries for symbols outside this refresh are carried forward
	// untouched. Requested symbols that failed stay absent, so the
	// resolver's fallback chain applies to them on the next read.
	for symbol, entry := range s.store.Current().Entries() {
		if set.Equities[symbol] || set.Crypto[symbol] {
			continue
		}
		if _, ok := entries[symbol]; !ok {
			entries[symbol] = entry
		}
	}

	now := time.Now().UTC()
	snap := pricestore.NewSnapshot(entries, now)
	s.store.Replace(snap)

	// Persistence is best-effort: the refreshed snapshot is already live,
	// so a failed write only costs durability, not correctness.
	if s.cachePath != "" {
		if err := pricestore.SaveFile(s.cachePath, snap); err != nil {
			log.Printf("price refresh: saving cache file: %v", err)
		}
	}
	if s.history != nil {
		if err := s.history.RecordRun(result.RunID, fetched); err != nil {
			log.Printf("price refresh: recording history: %v", err)
		}
	}

	return result
}

func (s *RefreshService) fetchEquity(ctx context.Context, symbol string) (model.PriceEntry, error) {
	var (
		price  float64
		source string
		err    error
	)
	if mutualFunds[symbol] {
		price, err = s.yahoo.GetQuote(ctx, symbol)
		source = model.SourceYahoo
	} else {
		price, err = s.finnhub.GetQuote(ctx, symbol)
		source = model.SourceFinnhub
	}
	if err != nil {
		return model.PriceEntry{}, classifyFetchError(err)
	}
	if price <= 0 {
		return model.PriceEntry{}, apperrors.ErrProviderFetchFailed
	}
	return model.PriceEntry{
		Symbol:    symbol,
		Price:     price,
		Source:    source,
		Class:     model.ClassStocks,
		Timestamp: time.Now().UTC(),
	}, nil
}

func (s *RefreshService) fetchCrypto(ctx context.Context, symbol string) (model.PriceEntry, error) {
	id, ok := cryptoIDs[symbol]
	if !ok {
		id = strings.ToLower(symbol)
	}

	price, err := s.coingecko.GetQuote(ctx, id)
	if err != nil {
		return model.PriceEntry{}, classifyFetchError(err)
	}
	if price <= 0 {
		return model.PriceEntry{}, apperrors.ErrProviderFetchFailed
	}
	return model.PriceEntry{
		Symbol:    symbol,
		Price:     price,
		Source:    model.SourceCoinGecko,
		Class:     model.ClassCrypto,
		Timestamp: time.Now().UTC(),
	}, nil
}

// classifyFetchError folds timeouts into the taxonomy; both kinds are
// handled identically downstream.
func classifyFetchError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ErrProviderTimeout
	}
	return err
}

func entryList(entries map[string]model.PriceEntry) []model.PriceEntry {
	list := make([]model.PriceEntry, 0, len(entries))
	for _, entry := range entries {
		list = append(list, entry)
	}
	return list
}
