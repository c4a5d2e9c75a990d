// Package pricestore holds the process-wide price cache. The cache is an
// immutable Snapshot published behind an atomic pointer: refreshes build a
// complete new snapshot and swap it in wholesale, so readers never observe a
// half-updated store and never block on a refresh in progress.
package pricestore

import (
	"sync/atomic"
	"time"

	"github.com/rai-openclaw/mission-control/internal/model"
)

// Snapshot is an immutable set of price entries keyed by symbol. Once built
// it is never modified; a refresh produces a new Snapshot instead.
type Snapshot struct {
	entries     map[string]model.PriceEntry
	lastUpdated time.Time
}

// NewSnapshot builds a snapshot from the given entries. The map is copied so
// later mutation by the caller cannot leak into a published snapshot.
func NewSnapshot(entries map[string]model.PriceEntry, lastUpdated time.Time) *Snapshot {
	copied := make(map[string]model.PriceEntry, len(entries))
	for symbol, entry := range entries {
		copied[symbol] = entry
	}
	return &Snapshot{entries: copied, lastUpdated: lastUpdated}
}

// Lookup returns the cached entry for a symbol, if present.
func (s *Snapshot) Lookup(symbol string) (model.PriceEntry, bool) {
	entry, ok := s.entries[symbol]
	return entry, ok
}

// Len returns the number of cached entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Entries returns a copy of all cached entries, safe for the caller to hold
// or serialize.
func (s *Snapshot) Entries() map[string]model.PriceEntry {
	copied := make(map[string]model.PriceEntry, len(s.entries))
	for symbol, entry := range s.entries {
		copied[symbol] = entry
	}
	return copied
}

// LastUpdated returns when the snapshot was produced.
func (s *Snapshot) LastUpdated() time.Time {
	return s.lastUpdated
}

// Store is the shared mutable handle to the current Snapshot. Many readers
// and a single refresher may use it concurrently without locking; the only
// write is the atomic pointer swap in Replace.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a Store holding an empty snapshot.
func NewStore() *Store {
	st := &Store{}
	st.current.Store(NewSnapshot(nil, time.Time{}))
	return st
}

// Current returns the currently published snapshot.
func (st *Store) Current() *Snapshot {
	return st.current.Load()
}

// Replace publishes a new snapshot. Readers holding the previous snapshot
// keep a consistent view; new reads see the replacement.
func (st *Store) Replace(snap *Snapshot) {
	st.current.Store(snap)
}

// Lookup returns the entry for a symbol from the current snapshot.
func (st *Store) Lookup(symbol string) (model.PriceEntry, bool) {
	return st.Current().Lookup(symbol)
}
