// Package newscache serves per-symbol news lookups through a time-boxed
// key-value cache, so each symbol hits the news provider at most once per
// freshness window regardless of how often the dashboard polls.
package newscache

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/models"
)

// DefaultTTL is the cache freshness window.
const DefaultTTL = 24 * time.Hour

// ArticleFetcher fetches the top-ranked news article for a symbol.
type ArticleFetcher interface {
	TopStockArticle(ctx context.Context, symbol string) (*models.NewsArticle, error)
}

// Service is the caching layer in front of an ArticleFetcher.
type Service struct {
	store   Store
	fetcher ArticleFetcher
	ttl     time.Duration
	logger  arbor.ILogger
	now     func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithTTL overrides the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithClock overrides the wall clock, used by tests to simulate expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a news cache service over the given store and fetcher.
func NewService(store Store, fetcher ArticleFetcher, logger arbor.ILogger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		fetcher: fetcher,
		ttl:     DefaultTTL,
		logger:  logger,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ArticleFor returns the cached article for a symbol while its entry is
// fresh, otherwise fetches, stores and returns a new one. Fetch failures
// are cached as nil with a fresh timestamp, so a broken provider is
// retried once per window. The method itself never fails; every error
// path degrades to a nil article.
func (s *Service) ArticleFor(ctx context.Context, symbol string) *models.NewsArticle {
	entry, err := s.store.Get(ctx, symbol)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Warn().
			Str("symbol", symbol).
			Err(err).
			Msg("News cache read failed")
	}

	if entry != nil && s.now().Sub(entry.FetchedAt) < s.ttl {
		return entry.Article
	}

	article, err := s.fetcher.TopStockArticle(ctx, symbol)
	if err != nil {
		s.logger.Warn().
			Str("symbol", symbol).
			Err(err).
			Msg("Failed to fetch news")
		article = nil
	}

	if err := s.store.Set(ctx, symbol, Entry{
		Symbol:    symbol,
		Article:   article,
		FetchedAt: s.now(),
	}); err != nil {
		s.logger.Warn().
			Str("symbol", symbol).
			Err(err).
			Msg("News cache write failed")
	}

	return article
}
