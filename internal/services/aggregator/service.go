// Package aggregator joins quote, news and insider-sentiment data into
// one opportunity record per symbol in the configured universe.
package aggregator

import (
	"context"
	"errors"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/models"
)

// ErrNoData is returned when an aggregation pass produces no records at
// all. Individual field failures never surface here; they degrade to nil
// fields on the per-symbol record.
var ErrNoData = errors.New("no stock data was retrieved")

// MarketData supplies per-symbol quote and sentiment lookups. Both calls
// are failure-tolerant and degrade to nil fields rather than erroring.
type MarketData interface {
	StockData(ctx context.Context, symbol string) models.Stock
	InsiderSentiment(ctx context.Context, symbol string) *models.InsiderSentiment
}

// NewsProvider supplies the (cached) top news article for a symbol.
type NewsProvider interface {
	ArticleFor(ctx context.Context, symbol string) *models.NewsArticle
}

// Service fans out across the symbol universe and merges the results.
type Service struct {
	symbols []string
	market  MarketData
	news    NewsProvider
	logger  arbor.ILogger
}

// NewService creates an aggregation service over a fixed universe. The
// symbol list is copied; the universe is immutable for the service's
// lifetime.
func NewService(symbols []string, market MarketData, news NewsProvider, logger arbor.ILogger) *Service {
	universe := make([]string, len(symbols))
	copy(universe, symbols)

	return &Service{
		symbols: universe,
		market:  market,
		news:    news,
		logger:  logger,
	}
}

// Symbols returns a copy of the configured universe.
func (s *Service) Symbols() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Opportunities builds one record per symbol. The three lookups for a
// symbol run concurrently, and all symbols run concurrently, so a pass
// issues up to 3N outbound requests at once; client-side rate limiters
// are the only throttle. A record is emitted for every symbol even when
// all of its lookups fail. The only error condition is an empty result
// set.
func (s *Service) Opportunities(ctx context.Context) ([]models.Opportunity, error) {
	if len(s.symbols) == 0 {
		return nil, ErrNoData
	}

	results := make([]models.Opportunity, len(s.symbols))

	var wg sync.WaitGroup
	for i, symbol := range s.symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			results[i] = s.opportunity(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	if len(results) == 0 {
		return nil, ErrNoData
	}

	return results, nil
}

// opportunity joins the three per-symbol lookups, waiting for all of them
// before the record is emitted.
func (s *Service) opportunity(ctx context.Context, symbol string) models.Opportunity {
	var (
		wg        sync.WaitGroup
		stock     models.Stock
		article   *models.NewsArticle
		sentiment *models.InsiderSentiment
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		stock = s.market.StockData(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		article = s.news.ArticleFor(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		sentiment = s.market.InsiderSentiment(ctx, symbol)
	}()
	wg.Wait()

	return models.Opportunity{
		Stock:            stock,
		News:             article,
		InsiderSentiment: sentiment,
	}
}
