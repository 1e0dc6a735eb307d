package handlers

import (
	"context"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/models"
)

// FeedFetcher fetches the generic AI news feed.
type FeedFetcher interface {
	AINews(ctx context.Context) ([]models.NewsArticle, error)
}

// NewsHandler serves the AI news feed. Articles carry their relevance
// score but keep the provider's publishedAt ordering; consumers that want
// relevance ordering sort client-side.
type NewsHandler struct {
	fetcher FeedFetcher
	logger  arbor.ILogger
}

func NewNewsHandler(fetcher FeedFetcher, logger arbor.ILogger) *NewsHandler {
	return &NewsHandler{
		fetcher: fetcher,
		logger:  logger,
	}
}

// FeedHandler handles GET /api/news.
func (h *NewsHandler) FeedHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	articles, err := h.fetcher.AINews(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to fetch AI news")
		WriteError(w, http.StatusBadGateway, "Failed to fetch AI news.")
		return
	}

	if articles == nil {
		articles = []models.NewsArticle{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
	})
}
