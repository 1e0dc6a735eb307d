// Package finnhub is a client for the Finnhub market-data API. It covers
// the three endpoints the dashboard consumes: live quote, metric bundle
// (52-week high) and insider sentiment.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/marketlens/marketlens/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the Finnhub API.
	DefaultBaseURL = "https://finnhub.io/api/v1"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10

	// sentimentWindowMonths is the trailing calendar window queried for
	// insider sentiment.
	sentimentWindowMonths = 3
)

// Client is a Finnhub API client.
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

// WithClock overrides the wall clock, used by tests to pin the insider
// sentiment query window.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new Finnhub API client.
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

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("url", c.baseURL+path).
			Msg("Finnhub API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Quote retrieves the live quote for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*QuoteResponse, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var result QuoteResponse
	if err := c.get(ctx, "/quote", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Metrics retrieves the full metric bundle for a symbol.
func (c *Client) Metrics(ctx context.Context, symbol string) (*MetricResponse, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("metric", "all")

	var result MetricResponse
	if err := c.get(ctx, "/stock/metric", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StockData fetches the quote and metric bundle concurrently and merges
// them into a Stock. It never returns an error: any transport or parse
// failure on either leg yields a record with nil price fields, logged as
// a side effect, so one bad symbol cannot abort an aggregation pass.
func (c *Client) StockData(ctx context.Context, symbol string) models.Stock {
	var (
		wg        sync.WaitGroup
		quote     *QuoteResponse
		metrics   *MetricResponse
		quoteErr  error
		metricErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		quote, quoteErr = c.Quote(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		metrics, metricErr = c.Metrics(ctx, symbol)
	}()
	wg.Wait()

	if quoteErr != nil || metricErr != nil {
		if c.logger != nil {
			err := quoteErr
			if err == nil {
				err = metricErr
			}
			c.logger.Warn().
				Str("symbol", symbol).
				Err(err).
				Msg("Failed to fetch stock data")
		}
		return models.Stock{Symbol: symbol}
	}

	currentPrice := quote.C
	stock := models.Stock{
		Symbol:       symbol,
		CurrentPrice: &currentPrice,
		AllTimeHigh:  metrics.Metric.Week52High,
	}

	// PercentFromHigh is defined only when the 52-week high is present and
	// non-zero.
	if high := metrics.Metric.Week52High; high != nil && *high != 0 {
		pct := (currentPrice - *high) / *high * 100
		stock.PercentFromHigh = &pct
	}

	return stock
}

// InsiderSentiment queries the trailing three calendar months of insider
// sentiment and returns the most recent month, or nil when the window is
// empty. Like StockData it swallows failures: errors are logged and nil
// is returned.
func (c *Client) InsiderSentiment(ctx context.Context, symbol string) *models.InsiderSentiment {
	to := c.now()
	from := to.AddDate(0, -sentimentWindowMonths, 0)

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var result InsiderSentimentResponse
	if err := c.get(ctx, "/stock/insider-sentiment", params, &result); err != nil {
		if c.logger != nil {
			c.logger.Warn().
				Str("symbol", symbol).
				Err(err).
				Msg("Failed to fetch insider sentiment")
		}
		return nil
	}

	return MostRecent(result.Data)
}

// MostRecent returns the entry with the highest (year, month), or nil for
// an empty slice. The input is not mutated.
func MostRecent(sentiments []models.InsiderSentiment) *models.InsiderSentiment {
	if len(sentiments) == 0 {
		return nil
	}

	sorted := make([]models.InsiderSentiment, len(sentiments))
	copy(sorted, sentiments)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year > sorted[j].Year
		}
		return sorted[i].Month > sorted[j].Month
	})

	return &sorted[0]
}
