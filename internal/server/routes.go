package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Dashboard data feed
	mux.HandleFunc("/api/opportunities", s.app.OpportunityHandler.ListHandler)
	mux.HandleFunc("/api/opportunities/best", s.app.OpportunityHandler.BestHandler)
	mux.HandleFunc("/api/ticker", s.app.OpportunityHandler.TickerHandler)
	mux.HandleFunc("/api/universe", s.app.OpportunityHandler.UniverseHandler)
	mux.HandleFunc("/api/news", s.app.NewsHandler.FeedHandler)

	// LLM analysis (one-shot per dashboard session)
	mux.HandleFunc("/claude-analysis", s.app.AnalysisHandler.AnalyzeHandler)

	// Historical snapshot series
	mux.HandleFunc("/historical-data", s.app.HistoryHandler.GetHandler)
	mux.HandleFunc("/update-historical-data", s.app.HistoryHandler.UpdateHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
