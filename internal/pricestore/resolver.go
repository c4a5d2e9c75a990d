package pricestore

import "github.com/rai-openclaw/mission-control/internal/model"

// SGOVNav is the fixed NAV of the iShares 0-3 Month Treasury Bond ETF.
// SGOV trades in a narrow band around its NAV, so it is priced as a constant
// rather than fetched live.
const SGOVNav = 100.0

// priceConstants maps symbols without a usable live quote source to their
// fixed prices.
var priceConstants = map[string]float64{
	model.AssetSGOV: SGOVNav,
}

// ConstantPrice returns the fixed price for a symbol, if one is defined.
func ConstantPrice(symbol string) (float64, bool) {
	price, ok := priceConstants[symbol]
	return price, ok
}

// Resolve returns the best-available price for a symbol within this
// snapshot and the source it came from, with a strict precedence: cached
// entry with a positive price, then fixed constant, then the unresolved
// sentinel. An unknown symbol yields model.UnresolvedPrice (-1) with source
// "unresolved" rather than an error.
func (s *Snapshot) Resolve(symbol string) (float64, string) {
	if entry, ok := s.entries[symbol]; ok && entry.Price > 0 {
		return entry.Price, entry.Source
	}
	if price, ok := priceConstants[symbol]; ok {
		return price, model.SourceConstant
	}
	return model.UnresolvedPrice, model.SourceUnresolved
}

// Resolver answers "what is this instrument worth right now" against
// whatever snapshot is current. It never fails; callers must treat the
// sentinel explicitly.
type Resolver struct {
	store *Store
}

// NewResolver creates a Resolver backed by the given store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve resolves a symbol against the current snapshot.
func (r *Resolver) Resolve(symbol string) (float64, string) {
	return r.store.Current().Resolve(symbol)
}

// Current returns the snapshot the next Resolve call would read. Callers
// needing several resolutions from one consistent view hold this snapshot
// and resolve against it directly.
func (r *Resolver) Current() *Snapshot {
	return r.store.Current()
}
