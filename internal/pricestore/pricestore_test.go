package pricestore_test

import (
	"sync"
	"testing"
	"time"

	"github.com/rai-openclaw/mission-control/internal/model"
	"github.com/rai-openclaw/mission-control/internal/pricestore"
)

func entry(symbol string, price float64) model.PriceEntry {
	return model.PriceEntry{
		Symbol:    symbol,
		Price:     price,
		Source:    model.SourceFinnhub,
		Class:     model.ClassStocks,
		Timestamp: time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
	}
}

// TestSnapshot_Lookup tests snapshot reads and immutability.
//
// WHY: snapshots are shared between concurrent aggregation calls; a snapshot
// that could change after publication would reintroduce the torn-read hazard
// the atomic-swap design exists to remove.
func TestSnapshot_Lookup(t *testing.T) {
	t.Run("returns entries by symbol", func(t *testing.T) {
		snap := pricestore.NewSnapshot(map[string]model.PriceEntry{
			"AAPL": entry("AAPL", 150),
		}, time.Now())

		got, ok := snap.Lookup("AAPL")
		if !ok {
			t.Fatal("Expected AAPL to be present")
		}
		if got.Price != 150 {
			t.Errorf("Expected price 150, got %v", got.Price)
		}

		if _, ok := snap.Lookup("MSFT"); ok {
			t.Error("Expected MSFT to be absent")
		}
	})

	t.Run("is isolated from the source map", func(t *testing.T) {
		entries := map[string]model.PriceEntry{"AAPL": entry("AAPL", 150)}
		snap := pricestore.NewSnapshot(entries, time.Now())

		entries["AAPL"] = entry("AAPL", 1)
		entries["MSFT"] = entry("MSFT", 2)

		got, _ := snap.Lookup("AAPL")
		if got.Price != 150 {
			t.Errorf("Snapshot changed after source map mutation: got price %v", got.Price)
		}
		if snap.Len() != 1 {
			t.Errorf("Expected 1 entry, got %d", snap.Len())
		}
	})

	t.Run("Entries returns a defensive copy", func(t *testing.T) {
		snap := pricestore.NewSnapshot(map[string]model.PriceEntry{
			"AAPL": entry("AAPL", 150),
		}, time.Now())

		copied := snap.Entries()
		delete(copied, "AAPL")

		if _, ok := snap.Lookup("AAPL"); !ok {
			t.Error("Mutating the Entries copy leaked into the snapshot")
		}
	})
}

// TestStore_Replace tests atomic snapshot publication.
//
// WHY: the store is the only shared mutable resource in the system. Readers
// racing a refresh must always see either the complete old snapshot or the
// complete new one, never a mix.
func TestStore_Replace(t *testing.T) {
	t.Run("readers see the new snapshot after replace", func(t *testing.T) {
		store := pricestore.NewStore()
		if store.Current().Len() != 0 {
			t.Fatal("Expected a new store to start empty")
		}

		store.Replace(pricestore.NewSnapshot(map[string]model.PriceEntry{
			"AAPL": entry("AAPL", 150),
		}, time.Now()))

		got, ok := store.Lookup("AAPL")
		if !ok || got.Price != 150 {
			t.Errorf("Expected AAPL at 150 after replace, got %+v (present=%v)", got, ok)
		}
	})

	t.Run("a held snapshot is unaffected by later replaces", func(t *testing.T) {
		store := pricestore.NewStore()
		store.Replace(pricestore.NewSnapshot(map[string]model.PriceEntry{
			"AAPL": entry("AAPL", 150),
		}, time.Now()))

		held := store.Current()
		store.Replace(pricestore.NewSnapshot(nil, time.Now()))

		if got, ok := held.Lookup("AAPL"); !ok || got.Price != 150 {
			t.Errorf("Held snapshot changed after replace: %+v (present=%v)", got, ok)
		}
		if store.Current().Len() != 0 {
			t.Error("Expected current snapshot to be empty after replace")
		}
	})

	t.Run("concurrent readers always see complete snapshots", func(t *testing.T) {
		// Each published snapshot holds two entries with the same price, so
		// a torn read would show up as mismatched prices.
		store := pricestore.NewStore()
		store.Replace(pricestore.NewSnapshot(map[string]model.PriceEntry{
			"A": entry("A", 1),
			"B": entry("B", 1),
		}, time.Now()))

		done := make(chan struct{})
		var wg sync.WaitGroup

		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-done:
						return
					default:
					}
					snap := store.Current()
					a, okA := snap.Lookup("A")
					b, okB := snap.Lookup("B")
					if !okA || !okB || a.Price != b.Price {
						t.Errorf("Torn read: A=%+v B=%+v", a, b)
						return
					}
				}
			}()
		}

		for v := 2; v <= 100; v++ {
			price := float64(v)
			store.Replace(pricestore.NewSnapshot(map[string]model.PriceEntry{
				"A": entry("A", price),
				"B": entry("B", price),
			}, time.Now()))
		}
		close(done)
		wg.Wait()
	})
}
