package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rai-openclaw/mission-control/internal/model"
	"github.com/rai-openclaw/mission-control/internal/pricestore"
	"github.com/rai-openclaw/mission-control/internal/repository"
	"github.com/rai-openclaw/mission-control/internal/service"
)

// defaultHistoryLimit caps history responses when no limit is given.
const defaultHistoryLimit = 30

// PriceHandler handles price cache HTTP requests
type PriceHandler struct {
	refreshService *service.RefreshService
	store          *pricestore.Store
	historyRepo    *repository.PriceHistoryRepository
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(refreshService *service.RefreshService, store *pricestore.Store, historyRepo *repository.PriceHistoryRepository) *PriceHandler {
	return &PriceHandler{
		refreshService: refreshService,
		store:          store,
		historyRepo:    historyRepo,
	}
}

// RefreshResponse represents the refresh-prices response. Mirrors the shape
// the dashboard already consumes.
type RefreshResponse struct {
	Success       bool     `json:"success"`
	PricesUpdated int      `json:"prices_updated"`
	Stocks        int      `json:"stocks"`
	Crypto        int      `json:"crypto"`
	RunID         string   `json:"run_id"`
	Failed        []string `json:"failed,omitempty"`
}

// RefreshPrices triggers an on-demand price refresh across all providers.
// Partial provider failures still return success with the counts of what was
// updated; only a holdings load failure is an error.
//
// Endpoint: POST /api/refresh-prices
func (h *PriceHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	result, err := h.refreshService.RefreshPrices(r.Context())
	if err != nil {
		errorResponse := map[string]interface{}{
			"success": false,
			"error":   "failed to refresh prices",
			"detail":  err.Error(),
		}
		respondJSON(w, http.StatusInternalServerError, errorResponse)
		return
	}

	respondJSON(w, http.StatusOK, RefreshResponse{
		Success:       true,
		PricesUpdated: result.Updated,
		Stocks:        result.Stocks,
		Crypto:        result.Crypto,
		RunID:         result.RunID,
		Failed:        result.Failed,
	})
}

// PricesResponse represents the current price cache contents.
type PricesResponse struct {
	LastUpdated time.Time                   `json:"last_updated"`
	Count       int                         `json:"count"`
	Prices      map[string]model.PriceEntry `json:"prices"`
}

// Prices returns the currently published price snapshot.
//
// Endpoint: GET /api/prices
func (h *PriceHandler) Prices(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Current()
	respondJSON(w, http.StatusOK, PricesResponse{
		LastUpdated: snap.LastUpdated(),
		Count:       snap.Len(),
		Prices:      snap.Entries(),
	})
}

// History returns the recorded refresh history for one symbol, newest first.
// The optional limit query parameter defaults to 30.
//
// Endpoint: GET /api/prices/history/{symbol}?limit=N
func (h *PriceHandler) History(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			errorResponse := map[string]string{
				"error":  "invalid limit parameter",
				"detail": "limit must be a positive integer",
			}
			respondJSON(w, http.StatusBadRequest, errorResponse)
			return
		}
		limit = parsed
	}

	records, err := h.historyRepo.GetHistory(symbol, limit)
	if err != nil {
		errorResponse := map[string]string{
			"error":  "failed to retrieve price history",
			"detail": err.Error(),
		}
		respondJSON(w, http.StatusInternalServerError, errorResponse)
		return
	}

	respondJSON(w, http.StatusOK, records)
}
