package finnhub

import (
	"fmt"

	"github.com/marketlens/marketlens/internal/models"
)

// QuoteResponse is the /quote payload. C is the current price.
type QuoteResponse struct {
	C  float64 `json:"c"`  // Current price
	D  float64 `json:"d"`  // Change
	DP float64 `json:"dp"` // Percent change
	H  float64 `json:"h"`  // High of the day
	L  float64 `json:"l"`  // Low of the day
	O  float64 `json:"o"`  // Open
	PC float64 `json:"pc"` // Previous close
}

// MetricResponse is the /stock/metric payload. Only the 52-week high is
// consumed; it is nil when the provider has no value for the symbol.
type MetricResponse struct {
	Symbol string `json:"symbol"`
	Metric struct {
		Week52High *float64 `json:"52WeekHigh"`
	} `json:"metric"`
}

// InsiderSentimentResponse is the /stock/insider-sentiment payload.
type InsiderSentimentResponse struct {
	Symbol string                    `json:"symbol"`
	Data   []models.InsiderSentiment `json:"data"`
}

// APIError represents a non-200 response from the Finnhub API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("finnhub API error on %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}
