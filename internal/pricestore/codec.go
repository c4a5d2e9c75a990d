package pricestore

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rai-openclaw/mission-control/internal/model"
)

// cacheVersion is written into every saved cache document.
const cacheVersion = "2.0"

// cacheEntry is the on-disk shape of a single cached price. Timestamps are
// stored as strings because older writers emitted ISO 8601 without a zone.
type cacheEntry struct {
	Price     float64 `json:"price"`
	Source    string  `json:"source"`
	Timestamp string  `json:"timestamp"`
}

// cacheDocument is the versioned on-disk price cache schema.
type cacheDocument struct {
	Version     string `json:"version"`
	LastUpdated string `json:"last_updated"`
	Prices      *struct {
		Stocks map[string]cacheEntry `json:"stocks"`
		Crypto map[string]cacheEntry `json:"crypto"`
	} `json:"prices"`
}

// timestampLayouts covers RFC 3339 plus the zone-less ISO 8601 forms older
// writers produced.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses a cache or holdings timestamp, tolerating the
// zone-less forms. Returns the zero time when no layout matches.
func ParseTimestamp(value string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// LoadFile reads a price cache file into a Snapshot. A missing file yields
// an empty snapshot, not an error. Both the versioned document and the
// legacy flat {"SYMBOL": price} shape are accepted; legacy entries are
// tagged with source "legacy".
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSnapshot(nil, time.Time{}), nil
		}
		return nil, fmt.Errorf("reading price cache %s: %w", path, err)
	}

	var doc cacheDocument
	if err := json.Unmarshal(data, &doc); err == nil && doc.Prices != nil {
		entries := make(map[string]model.PriceEntry)
		for symbol, e := range doc.Prices.Stocks {
			entries[symbol] = model.PriceEntry{
				Symbol:    symbol,
				Price:     e.Price,
				Source:    e.Source,
				Class:     model.ClassStocks,
				Timestamp: ParseTimestamp(e.Timestamp),
			}
		}
		for symbol, e := range doc.Prices.Crypto {
			entries[symbol] = model.PriceEntry{
				Symbol:    symbol,
				Price:     e.Price,
				Source:    e.Source,
				Class:     model.ClassCrypto,
				Timestamp: ParseTimestamp(e.Timestamp),
			}
		}
		return NewSnapshot(entries, ParseTimestamp(doc.LastUpdated)), nil
	}

	// Legacy flat shape.
	var flat map[string]float64
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("decoding price cache %s: %w", path, err)
	}
	entries := make(map[string]model.PriceEntry, len(flat))
	for symbol, price := range flat {
		entries[symbol] = model.PriceEntry{
			Symbol: symbol,
			Price:  price,
			Source: model.SourceLegacy,
			Class:  model.ClassStocks,
		}
	}
	return NewSnapshot(entries, time.Time{}), nil
}

// SaveFile writes a snapshot to disk in the versioned schema, partitioned by
// asset class. Entries without a class land under stocks.
func SaveFile(path string, snap *Snapshot) error {
	doc := cacheDocument{
		Version:     cacheVersion,
		LastUpdated: snap.LastUpdated().Format(time.RFC3339),
	}
	doc.Prices = &struct {
		Stocks map[string]cacheEntry `json:"stocks"`
		Crypto map[string]cacheEntry `json:"crypto"`
	}{
		Stocks: make(map[string]cacheEntry),
		Crypto: make(map[string]cacheEntry),
	}

	for symbol, entry := range snap.Entries() {
		encoded := cacheEntry{
			Price:     entry.Price,
			Source:    entry.Source,
			Timestamp: entry.Timestamp.Format(time.RFC3339),
		}
		if entry.Class == model.ClassCrypto {
			doc.Prices.Crypto[symbol] = encoded
		} else {
			doc.Prices.Stocks[symbol] = encoded
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding price cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing price cache %s: %w", path, err)
	}
	return nil
}
