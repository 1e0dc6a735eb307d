// Package newsapi is a client for the NewsAPI "everything" search
// endpoint, with the relevance scoring the dashboard ranks articles by.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/marketlens/marketlens/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the NewsAPI service.
	DefaultBaseURL = "https://newsapi.org/v2"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	// aiTopicQuery is the fixed query for the generic AI news feed.
	aiTopicQuery = `artificial intelligence AND (technology OR innovation OR "machine learning" OR "deep learning" OR robotics)`

	stockNewsPageSize = 10
	aiNewsPageSize    = 20
)

// APIError represents a non-200 response from NewsAPI.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsapi error: status %d: %s", e.StatusCode, e.Message)
}

// everythingResponse is the wire shape of the /everything endpoint.
type everythingResponse struct {
	Status       string               `json:"status"`
	TotalResults int                  `json:"totalResults"`
	Articles     []models.NewsArticle `json:"articles"`
}

// Client is a NewsAPI client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
	now        func() time.Time
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithClock overrides the wall clock used for recency scoring.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new NewsAPI client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// everything performs a GET against /everything with the given query.
func (c *Client) everything(ctx context.Context, query, sortBy string, pageSize int) ([]models.NewsArticle, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", sortBy)
	params.Set("pageSize", fmt.Sprintf("%d", pageSize))
	params.Set("apiKey", c.apiKey)

	reqURL := fmt.Sprintf("%s/everything?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("sort_by", sortBy).
			Int("page_size", pageSize).
			Msg("NewsAPI request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	var result everythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Articles, nil
}

// StockNewsQuery builds the per-symbol financial news query.
func StockNewsQuery(symbol string) string {
	return fmt.Sprintf(`%s AND (earnings OR revenue OR growth OR "stock price" OR investor OR market)`, symbol)
}

// TopStockArticle fetches financial news for a symbol, scores each article
// against the symbol, and returns the highest-scoring one. Returns
// (nil, nil) when the query matches no articles at all.
func (c *Client) TopStockArticle(ctx context.Context, symbol string) (*models.NewsArticle, error) {
	articles, err := c.everything(ctx, StockNewsQuery(symbol), "relevancy", stockNewsPageSize)
	if err != nil {
		return nil, err
	}

	if len(articles) == 0 {
		return nil, nil
	}

	now := c.now()
	var best *models.NewsArticle
	for i := range articles {
		articles[i].RelevanceScore = RelevanceScore(articles[i], symbol, now)
		if best == nil || articles[i].RelevanceScore > best.RelevanceScore {
			best = &articles[i]
		}
	}

	return best, nil
}

// AINews fetches the generic AI-topic feed, scored against the "AI"
// keyword. The slice is returned in the provider's publishedAt order;
// re-sorting by relevance is left to the caller.
func (c *Client) AINews(ctx context.Context) ([]models.NewsArticle, error) {
	articles, err := c.everything(ctx, aiTopicQuery, "publishedAt", aiNewsPageSize)
	if err != nil {
		return nil, err
	}

	now := c.now()
	for i := range articles {
		articles[i].RelevanceScore = RelevanceScore(articles[i], "AI", now)
	}

	return articles, nil
}
