package handlers

import (
	"net/http"

	"github.com/rai-openclaw/mission-control/internal/service"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	aggregationService *service.AggregationService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(aggregationService *service.AggregationService) *PortfolioHandler {
	return &PortfolioHandler{
		aggregationService: aggregationService,
	}
}

// Portfolio returns the consolidated portfolio snapshot: per-ticker stock
// aggregates, option line items, cash/SGOV totals, misc assets, and category
// totals. The snapshot is recomputed from the holdings source on every call.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with model.PortfolioSnapshot
// Error: 500 Internal Server Error if the holdings source cannot be loaded
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.aggregationService.BuildSnapshot()
	if err != nil {
		errorResponse := map[string]string{
			"error":  "failed to build portfolio snapshot",
			"detail": err.Error(),
		}
		respondJSON(w, http.StatusInternalServerError, errorResponse)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}
