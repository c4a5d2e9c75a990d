package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rai-openclaw/mission-control/internal/model"
	"github.com/rai-openclaw/mission-control/internal/pricestore"
	"github.com/rai-openclaw/mission-control/internal/repository"
	"github.com/rai-openclaw/mission-control/internal/service"
	"github.com/rai-openclaw/mission-control/internal/testutil"
)

func TestPriceHandler_Prices(t *testing.T) {
	t.Run("returns the current snapshot contents", func(t *testing.T) {
		store := pricestore.NewStore()
		updated := time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)
		store.Replace(pricestore.NewSnapshot(map[string]model.PriceEntry{
			"AAPL": {Symbol: "AAPL", Price: 150, Source: model.SourceFinnhub, Class: model.ClassStocks},
			"ETH":  {Symbol: "ETH", Price: 2400, Source: model.SourceCoinGecko, Class: model.ClassCrypto},
		}, updated))
		handler := NewPriceHandler(nil, store, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/prices", nil)
		w := httptest.NewRecorder()

		handler.Prices(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response PricesResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Count != 2 {
			t.Errorf("Expected count 2, got %d", response.Count)
		}
		if !response.LastUpdated.Equal(updated) {
			t.Errorf("Expected last_updated %v, got %v", updated, response.LastUpdated)
		}
		if response.Prices["AAPL"].Price != 150 {
			t.Errorf("Expected AAPL at 150, got %v", response.Prices["AAPL"].Price)
		}
	})

	t.Run("empty store yields an empty price map", func(t *testing.T) {
		handler := NewPriceHandler(nil, pricestore.NewStore(), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/prices", nil)
		w := httptest.NewRecorder()

		handler.Prices(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response PricesResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Count != 0 {
			t.Errorf("Expected count 0, got %d", response.Count)
		}
	})
}

func TestPriceHandler_RefreshPrices(t *testing.T) {
	setupHandler := func(t *testing.T, source *testutil.StaticHoldings) (*PriceHandler, *pricestore.Store) {
		t.Helper()
		store := pricestore.NewStore()
		finnhub := testutil.NewMockQuoteClient(map[string]float64{"AAPL": 150, "SGOV": 100.2})
		yahoo := testutil.NewMockQuoteClient(nil)
		coingecko := testutil.NewMockQuoteClient(map[string]float64{"ethereum": 2400})
		refresh := service.NewRefreshService(source, store, "", finnhub, yahoo, coingecko, nil, time.Minute, 4)
		return NewPriceHandler(refresh, store, nil), store
	}

	t.Run("refreshes every held symbol and reports counts", func(t *testing.T) {
		source := &testutil.StaticHoldings{Doc: testutil.Document(
			testutil.NewAccount("Brokerage A").
				WithStock("AAPL", 10, 1500).
				WithMisc("ETH", "crypto", 1.5, 3000).
				Build(),
		)}
		handler, store := setupHandler(t, source)

		req := httptest.NewRequest(http.MethodPost, "/api/refresh-prices", nil)
		w := httptest.NewRecorder()

		handler.RefreshPrices(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response RefreshResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if !response.Success {
			t.Error("Expected success true")
		}
		// AAPL + SGOV as equities, ETH as crypto.
		if response.PricesUpdated != 3 {
			t.Errorf("Expected 3 prices updated, got %d", response.PricesUpdated)
		}
		if response.Stocks != 2 {
			t.Errorf("Expected 2 stock prices, got %d", response.Stocks)
		}
		if response.Crypto != 1 {
			t.Errorf("Expected 1 crypto price, got %d", response.Crypto)
		}
		if response.RunID == "" {
			t.Error("Expected a run_id")
		}
		if len(response.Failed) != 0 {
			t.Errorf("Expected no failed symbols, got %v", response.Failed)
		}

		if _, ok := store.Lookup("AAPL"); !ok {
			t.Error("Expected AAPL in the published snapshot")
		}
	})

	t.Run("returns 500 when holdings cannot be loaded", func(t *testing.T) {
		source := &testutil.StaticHoldings{Err: fmt.Errorf("holdings file gone")}
		handler, _ := setupHandler(t, source)

		req := httptest.NewRequest(http.MethodPost, "/api/refresh-prices", nil)
		w := httptest.NewRecorder()

		handler.RefreshPrices(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}

		var response map[string]interface{}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if success, _ := response["success"].(bool); success {
			t.Error("Expected success false")
		}
	})
}

func TestPriceHandler_History(t *testing.T) {
	historyRequest := func(symbol, query string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/prices/history/"+symbol+query, nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("symbol", symbol)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	setupHandler := func(t *testing.T) (*PriceHandler, *repository.PriceHistoryRepository) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		repo := repository.NewPriceHistoryRepository(db)
		return NewPriceHandler(nil, pricestore.NewStore(), repo), repo
	}

	t.Run("returns recorded history newest first", func(t *testing.T) {
		handler, repo := setupHandler(t)

		older := time.Date(2026, 1, 14, 14, 0, 0, 0, time.UTC)
		newer := time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)
		if err := repo.RecordRun("run-1", []model.PriceEntry{
			{Symbol: "AAPL", Price: 148, Source: model.SourceFinnhub, Class: model.ClassStocks, Timestamp: older},
		}); err != nil {
			t.Fatalf("Failed to record run: %v", err)
		}
		if err := repo.RecordRun("run-2", []model.PriceEntry{
			{Symbol: "AAPL", Price: 150, Source: model.SourceFinnhub, Class: model.ClassStocks, Timestamp: newer},
			{Symbol: "MSFT", Price: 410, Source: model.SourceFinnhub, Class: model.ClassStocks, Timestamp: newer},
		}); err != nil {
			t.Fatalf("Failed to record run: %v", err)
		}

		w := httptest.NewRecorder()
		handler.History(w, historyRequest("AAPL", ""))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var records []model.PriceHistoryRecord
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&records)

		if len(records) != 2 {
			t.Fatalf("Expected 2 records for AAPL, got %d", len(records))
		}
		if records[0].Price != 150 || records[1].Price != 148 {
			t.Errorf("Expected newest-first ordering, got prices %v, %v", records[0].Price, records[1].Price)
		}
		if records[0].RunID != "run-2" {
			t.Errorf("Expected newest record from run-2, got %s", records[0].RunID)
		}
	})

	t.Run("limit query caps the result", func(t *testing.T) {
		handler, repo := setupHandler(t)

		for i := 0; i < 5; i++ {
			entry := model.PriceEntry{
				Symbol:    "AAPL",
				Price:     float64(100 + i),
				Source:    model.SourceFinnhub,
				Class:     model.ClassStocks,
				Timestamp: time.Date(2026, 1, 10+i, 14, 0, 0, 0, time.UTC),
			}
			if err := repo.RecordRun(fmt.Sprintf("run-%d", i), []model.PriceEntry{entry}); err != nil {
				t.Fatalf("Failed to record run: %v", err)
			}
		}

		w := httptest.NewRecorder()
		handler.History(w, historyRequest("AAPL", "?limit=2"))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var records []model.PriceHistoryRecord
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&records)

		if len(records) != 2 {
			t.Errorf("Expected 2 records with limit=2, got %d", len(records))
		}
	})

	t.Run("rejects a non-positive limit", func(t *testing.T) {
		handler, _ := setupHandler(t)

		w := httptest.NewRecorder()
		handler.History(w, historyRequest("AAPL", "?limit=0"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects a malformed limit", func(t *testing.T) {
		handler, _ := setupHandler(t)

		w := httptest.NewRecorder()
		handler.History(w, historyRequest("AAPL", "?limit=lots"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown symbol yields an empty list", func(t *testing.T) {
		handler, _ := setupHandler(t)

		w := httptest.NewRecorder()
		handler.History(w, historyRequest("ZZZZ", ""))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var records []model.PriceHistoryRecord
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&records)

		if len(records) != 0 {
			t.Errorf("Expected no records, got %d", len(records))
		}
	})
}
