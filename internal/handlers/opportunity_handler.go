package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/services/ranking"
)

// OpportunityHandler serves the ranked opportunity views from the
// refresher's latest snapshot. Requests never trigger upstream calls.
type OpportunityHandler struct {
	refresher *ranking.Refresher
	universe  map[string][]string
	logger    arbor.ILogger
}

func NewOpportunityHandler(refresher *ranking.Refresher, universe map[string][]string, logger arbor.ILogger) *OpportunityHandler {
	return &OpportunityHandler{
		refresher: refresher,
		universe:  universe,
		logger:    logger,
	}
}

// ListHandler handles GET /api/opportunities. Records are sorted by
// drawdown: biggest losses from the 52-week high first.
func (h *OpportunityHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	opportunities, refreshed := h.refresher.Opportunities()
	if len(opportunities) == 0 {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"message": "Failed to fetch stock opportunities.",
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"opportunities": opportunities,
		"lastUpdated":   refreshed.Format(time.RFC3339),
	})
}

// BestHandler handles GET /api/opportunities/best.
func (h *OpportunityHandler) BestHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	best := h.refresher.Best()
	if best == nil {
		WriteJSON(w, http.StatusNotFound, map[string]string{
			"message": "No opportunity found at this time.",
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"opportunity": best,
		"score":       ranking.Score(*best),
	})
}

// TickerHandler handles GET /api/ticker, the lightweight quote strip.
func (h *OpportunityHandler) TickerHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"stocks": h.refresher.Ticker(),
	})
}

// UniverseHandler handles GET /api/universe.
func (h *OpportunityHandler) UniverseHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.universe,
	})
}
