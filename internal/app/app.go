// Package app wires configuration, storage, clients, services and
// handlers into one runnable application.
package app

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/finnhub"
	"github.com/marketlens/marketlens/internal/handlers"
	"github.com/marketlens/marketlens/internal/newsapi"
	"github.com/marketlens/marketlens/internal/services/aggregator"
	"github.com/marketlens/marketlens/internal/services/analysis"
	"github.com/marketlens/marketlens/internal/services/history"
	"github.com/marketlens/marketlens/internal/services/newscache"
	"github.com/marketlens/marketlens/internal/services/ranking"
	"github.com/marketlens/marketlens/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	DB *badger.BadgerDB

	FinnhubClient *finnhub.Client
	NewsClient    *newsapi.Client

	NewsCache    *newscache.Service
	Aggregator   *aggregator.Service
	Refresher    *ranking.Refresher
	HistoryStore *history.Store
	Analysis     *analysis.Service

	// HTTP handlers
	APIHandler         *handlers.APIHandler
	AnalysisHandler    *handlers.AnalysisHandler
	HistoryHandler     *handlers.HistoryHandler
	OpportunityHandler *handlers.OpportunityHandler
	NewsHandler        *handlers.NewsHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Upstream clients. Missing keys degrade their own call paths to
	// logged failures, never startup errors.
	if cfg.Finnhub.APIKey == "" {
		logger.Warn().Msg("FINNHUB_API_KEY not set, quote data will be unavailable")
	}
	if cfg.News.APIKey == "" {
		logger.Warn().Msg("NEWS_API_KEY not set, news data will be unavailable")
	}

	app.FinnhubClient = finnhub.NewClient(cfg.Finnhub.APIKey,
		finnhub.WithBaseURL(cfg.Finnhub.BaseURL),
		finnhub.WithLogger(logger),
		finnhub.WithRateLimit(cfg.Finnhub.RateLimit),
	)
	app.NewsClient = newsapi.NewClient(cfg.News.APIKey,
		newsapi.WithBaseURL(cfg.News.BaseURL),
		newsapi.WithLogger(logger),
		newsapi.WithRateLimit(cfg.News.RateLimit),
	)

	// News cache store: durable by default, in-memory when configured.
	cacheStore, err := app.newsCacheStore()
	if err != nil {
		return nil, err
	}

	cacheTTL, err := time.ParseDuration(cfg.News.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid news cache TTL: %w", err)
	}

	app.NewsCache = newscache.NewService(cacheStore, app.NewsClient, logger,
		newscache.WithTTL(cacheTTL),
	)

	app.Aggregator = aggregator.NewService(cfg.Symbols(), app.FinnhubClient, app.NewsCache, logger)

	app.HistoryStore = history.NewStore(cfg.History.Path, logger,
		history.WithMaxPoints(cfg.History.MaxPoints),
	)

	app.Refresher = ranking.NewRefresher(app.Aggregator, app.HistoryStore, logger)

	app.Analysis = analysis.NewService(&cfg.Claude, logger)

	// Handlers
	app.APIHandler = handlers.NewAPIHandler(logger)
	app.AnalysisHandler = handlers.NewAnalysisHandler(app.Analysis, logger)
	app.HistoryHandler = handlers.NewHistoryHandler(app.HistoryStore, logger)
	app.OpportunityHandler = handlers.NewOpportunityHandler(app.Refresher, cfg.Universe, logger)
	app.NewsHandler = handlers.NewNewsHandler(app.NewsClient, logger)

	logger.Info().
		Int("symbols", len(cfg.Symbols())).
		Str("cache_type", cfg.News.CacheType).
		Msg("Application initialized")

	return app, nil
}

// newsCacheStore opens the configured news cache backing store.
func (a *App) newsCacheStore() (newscache.Store, error) {
	if a.Config.News.CacheType == "memory" {
		return newscache.NewMemoryStore(), nil
	}

	db, err := badger.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}
	a.DB = db

	return badger.NewNewsCacheStorage(db, a.Logger), nil
}

// Start launches the background refresh jobs.
func (a *App) Start() error {
	opportunityInterval, err := time.ParseDuration(a.Config.Refresh.OpportunityInterval)
	if err != nil {
		return fmt.Errorf("invalid opportunity interval: %w", err)
	}
	tickerInterval, err := time.ParseDuration(a.Config.Refresh.TickerInterval)
	if err != nil {
		return fmt.Errorf("invalid ticker interval: %w", err)
	}

	return a.Refresher.Start(opportunityInterval, tickerInterval)
}

// Close stops background jobs and releases resources.
func (a *App) Close() {
	if a.Refresher != nil {
		a.Refresher.Stop()
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close cache database")
		}
	}
}
