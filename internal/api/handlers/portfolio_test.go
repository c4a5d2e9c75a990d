package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rai-openclaw/mission-control/internal/model"
	"github.com/rai-openclaw/mission-control/internal/pricestore"
	"github.com/rai-openclaw/mission-control/internal/service"
	"github.com/rai-openclaw/mission-control/internal/testutil"
)

func TestPortfolioHandler_Portfolio(t *testing.T) {
	setupHandler := func(t *testing.T, source *testutil.StaticHoldings, prices map[string]model.PriceEntry) *PortfolioHandler {
		t.Helper()
		store := pricestore.NewStore()
		store.Replace(pricestore.NewSnapshot(prices, time.Now().UTC()))
		agg := service.NewAggregationService(source, pricestore.NewResolver(store))
		return NewPortfolioHandler(agg)
	}

	t.Run("returns the consolidated snapshot", func(t *testing.T) {
		source := &testutil.StaticHoldings{Doc: testutil.Document(
			testutil.NewAccount("Brokerage A").
				WithStock("AAPL", 10, 1500).
				WithCash(2500).
				Build(),
		)}
		handler := setupHandler(t, source, map[string]model.PriceEntry{
			"AAPL": {Symbol: "AAPL", Price: 150, Source: model.SourceFinnhub, Class: model.ClassStocks},
		})

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
		w := httptest.NewRecorder()

		handler.Portfolio(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var snapshot model.PortfolioSnapshot
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&snapshot)

		if len(snapshot.Stocks) != 1 {
			t.Fatalf("Expected 1 stock line, got %d", len(snapshot.Stocks))
		}
		if snapshot.Stocks[0].Ticker != "AAPL" {
			t.Errorf("Expected ticker AAPL, got %s", snapshot.Stocks[0].Ticker)
		}
		if snapshot.Stocks[0].TotalValue != 1500 {
			t.Errorf("Expected total value 1500, got %v", snapshot.Stocks[0].TotalValue)
		}
		if snapshot.Cash.CashTotal != 2500 {
			t.Errorf("Expected cash total 2500, got %v", snapshot.Cash.CashTotal)
		}
	})

	t.Run("returns 500 when holdings cannot be loaded", func(t *testing.T) {
		source := &testutil.StaticHoldings{Err: fmt.Errorf("disk on fire")}
		handler := setupHandler(t, source, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
		w := httptest.NewRecorder()

		handler.Portfolio(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}

		var response map[string]string
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response["error"] == "" {
			t.Error("Expected an error field in the response body")
		}
	})
}
