// Package analysis produces the one-shot natural-language investment
// summary for an opportunity record via the Anthropic API.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/models"
)

// ErrNotConfigured is returned when no Anthropic API key is available.
// The analysis path degrades to an explicit error state; the rest of the
// dashboard is unaffected.
var ErrNotConfigured = errors.New("anthropic API key is not configured")

const systemPrompt = "You are a financial analyst providing brief stock analyses."

const defaultTimeout = 60 * time.Second

// Service wraps the Anthropic client with the fixed analysis prompt.
type Service struct {
	config     *common.ClaudeConfig
	logger     arbor.ILogger
	client     anthropic.Client
	configured bool
	timeout    time.Duration
}

// NewService creates the analysis service. A missing API key is not an
// error here; Analyze reports ErrNotConfigured per call instead, so the
// server still starts without credentials.
func NewService(config *common.ClaudeConfig, logger arbor.ILogger) *Service {
	s := &Service{
		config:  config,
		logger:  logger,
		timeout: defaultTimeout,
	}

	if t, err := time.ParseDuration(config.Timeout); err == nil && t > 0 {
		s.timeout = t
	}

	if config.APIKey != "" {
		s.client = anthropic.NewClient(
			option.WithAPIKey(config.APIKey),
		)
		s.configured = true

		logger.Debug().
			Str("model", config.Model).
			Int("max_tokens", config.MaxTokens).
			Dur("timeout", s.timeout).
			Msg("Claude analysis service initialized")
	} else {
		logger.Warn().Msg("ANTHROPIC_API_KEY not set, analysis endpoint disabled")
	}

	return s
}

// BuildPrompt renders the fixed analysis prompt for a record. Missing
// sentiment renders as "N/A" and missing news as "No recent news",
// matching what the model was tuned against.
func BuildPrompt(stock models.Opportunity) string {
	sentiment := "N/A"
	if stock.InsiderSentiment != nil {
		sentiment = fmt.Sprintf("%.2f", stock.InsiderSentiment.MSPR)
	}

	news := "No recent news"
	if stock.News != nil {
		news = stock.News.Title
	}

	return fmt.Sprintf(`Analyze the following stock data and provide a concise summary of this investment opportunity:
    Symbol: %s
    Current Price: $%s
    52-Week High: $%s
    Percent from High: %s%%
    Insider Sentiment: %s
    Latest News: %s

    Please provide a brief analysis of this stock's potential as an investment opportunity, considering its current price relative to its 52-week high, insider sentiment, and any relevant news. Limit your response to 3-4 sentences.`,
		stock.Symbol,
		formatFloat(stock.CurrentPrice),
		formatFloat(stock.AllTimeHigh),
		formatFloat(stock.PercentFromHigh),
		sentiment,
		news,
	)
}

func formatFloat(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

// Analyze asks the model for a 3-4 sentence summary of one opportunity
// record and returns the first text content block.
func (s *Service) Analyze(ctx context.Context, stock models.Opportunity) (string, error) {
	if !s.configured {
		return "", ErrNotConfigured
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	s.logger.Debug().
		Str("symbol", stock.Symbol).
		Msg("Requesting Claude analysis")

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.config.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(stock))),
		},
		Temperature: anthropic.Float(s.config.Temperature),
	}

	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		s.logger.Error().
			Str("symbol", stock.Symbol).
			Err(err).
			Msg("Claude API call failed")
		return "", fmt.Errorf("claude API call failed: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no content in API response")
	}

	first := resp.Content[0]
	if first.Type != "text" || first.Text == "" {
		return "", fmt.Errorf("unexpected content structure in API response")
	}

	s.logger.Debug().
		Str("symbol", stock.Symbol).
		Int("response_length", len(first.Text)).
		Dur("duration", time.Since(start)).
		Msg("Claude analysis completed")

	return first.Text, nil
}
