package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/models"
)

func TestBuildPrompt(t *testing.T) {
	price := 450.25
	high := 600.0
	pct := -24.958333

	record := models.Opportunity{
		Stock: models.Stock{
			Symbol:          "NVDA",
			CurrentPrice:    &price,
			AllTimeHigh:     &high,
			PercentFromHigh: &pct,
		},
		InsiderSentiment: &models.InsiderSentiment{Symbol: "NVDA", MSPR: 0.5},
		News:             &models.NewsArticle{Title: "NVDA beats earnings expectations"},
	}

	prompt := BuildPrompt(record)

	for _, want := range []string{
		"Symbol: NVDA",
		"Current Price: $450.25",
		"52-Week High: $600.00",
		"Percent from High: -24.96%",
		"Insider Sentiment: 0.50",
		"Latest News: NVDA beats earnings expectations",
		"Limit your response to 3-4 sentences.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptMissingFields(t *testing.T) {
	prompt := BuildPrompt(models.Opportunity{Stock: models.Stock{Symbol: "INTC"}})

	for _, want := range []string{
		"Current Price: $N/A",
		"52-Week High: $N/A",
		"Percent from High: N/A%",
		"Insider Sentiment: N/A",
		"Latest News: No recent news",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAnalyzeWithoutAPIKey(t *testing.T) {
	cfg := &common.ClaudeConfig{
		Model:     "claude-3-sonnet-20240229",
		MaxTokens: 150,
		Timeout:   "60s",
	}
	svc := NewService(cfg, common.GetLogger())

	_, err := svc.Analyze(context.Background(), models.Opportunity{Stock: models.Stock{Symbol: "NVDA"}})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Analyze() error = %v, want ErrNotConfigured", err)
	}
}
