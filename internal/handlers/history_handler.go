package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/models"
	"github.com/marketlens/marketlens/internal/services/history"
)

// HistoryHandler serves the rolling daily snapshot series.
type HistoryHandler struct {
	store  *history.Store
	logger arbor.ILogger
}

func NewHistoryHandler(store *history.Store, logger arbor.ILogger) *HistoryHandler {
	return &HistoryHandler{
		store:  store,
		logger: logger,
	}
}

// GetHandler handles GET /historical-data.
func (h *HistoryHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	points, err := h.store.Points()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read historical data")
		WriteError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	if points == nil {
		points = []models.HistoricalPoint{}
	}

	WriteJSON(w, http.StatusOK, points)
}

// updateRequest is the POST /update-historical-data body.
type updateRequest struct {
	Data []models.HistoricalPoint `json:"data"`
}

// UpdateHandler handles POST /update-historical-data.
func (h *HistoryHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Historical data is required",
		})
		return
	}

	if err := h.store.Replace(req.Data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to update historical data")
		WriteError(w, http.StatusInternalServerError, "Failed to update data")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Data updated successfully",
	})
}
