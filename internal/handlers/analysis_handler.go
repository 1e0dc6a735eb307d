package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/models"
	"github.com/marketlens/marketlens/internal/services/analysis"
)

// Analyzer produces the natural-language summary for one record.
type Analyzer interface {
	Analyze(ctx context.Context, stock models.Opportunity) (string, error)
}

// AnalysisHandler serves the one-shot Claude analysis endpoint. The
// dashboard calls it once per session for the top pick, never on refresh
// ticks, so every request here is a paid API call the caller asked for.
type AnalysisHandler struct {
	analyzer Analyzer
	logger   arbor.ILogger
}

func NewAnalysisHandler(analyzer Analyzer, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// analysisRequest is the POST /claude-analysis body.
type analysisRequest struct {
	StockData *models.Opportunity `json:"stockData"`
}

// AnalyzeHandler handles POST /claude-analysis.
func (h *AnalysisHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StockData == nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Stock data is required",
		})
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), *req.StockData)
	if err != nil {
		if errors.Is(err, analysis.ErrNotConfigured) {
			h.logger.Error().Msg("ANTHROPIC_API_KEY is not set")
			WriteJSON(w, http.StatusInternalServerError, map[string]string{
				"message": "Server configuration error",
			})
			return
		}

		h.logger.Error().
			Str("symbol", req.StockData.Symbol).
			Err(err).
			Msg("Analysis request failed")
		WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Error generating analysis",
			"error":   err.Error(),
			"details": "No additional details available",
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"analysis": result,
	})
}
