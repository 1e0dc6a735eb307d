package newsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marketlens/marketlens/internal/models"
)

func newTestServer(t *testing.T, articles []models.NewsArticle, capture *map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			params := make(map[string]string)
			for key := range r.URL.Query() {
				params[key] = r.URL.Query().Get(key)
			}
			*capture = params
		}
		json.NewEncoder(w).Encode(everythingResponse{
			Status:       "ok",
			TotalResults: len(articles),
			Articles:     articles,
		})
	}))
}

func TestTopStockArticlePicksHighestScore(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	articles := []models.NewsArticle{
		{Title: "Quarterly roundup", PublishedAt: now.AddDate(0, 0, -10)},
		{Title: "NVDA robotics partnership announced", PublishedAt: now},
		{Title: "Markets mixed", PublishedAt: now.AddDate(0, 0, -4)},
	}

	var params map[string]string
	srv := newTestServer(t, articles, &params)
	defer srv.Close()

	client := NewClient("test-key",
		WithBaseURL(srv.URL),
		WithClock(func() time.Time { return now }),
	)

	got, err := client.TopStockArticle(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("TopStockArticle() error = %v", err)
	}
	if got == nil {
		t.Fatal("TopStockArticle() = nil, want article")
	}
	if got.Title != "NVDA robotics partnership announced" {
		t.Errorf("TopStockArticle() picked %q", got.Title)
	}
	if got.RelevanceScore == 0 {
		t.Error("TopStockArticle() did not assign a relevance score")
	}

	if params["q"] != `NVDA AND (earnings OR revenue OR growth OR "stock price" OR investor OR market)` {
		t.Errorf("unexpected query: %q", params["q"])
	}
	if params["sortBy"] != "relevancy" {
		t.Errorf("sortBy = %q, want relevancy", params["sortBy"])
	}
	if params["pageSize"] != "10" {
		t.Errorf("pageSize = %q, want 10", params["pageSize"])
	}
	if params["language"] != "en" {
		t.Errorf("language = %q, want en", params["language"])
	}
	if params["apiKey"] != "test-key" {
		t.Errorf("apiKey = %q, want test-key", params["apiKey"])
	}
}

func TestTopStockArticleEmptyResult(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	got, err := client.TopStockArticle(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("TopStockArticle() error = %v", err)
	}
	if got != nil {
		t.Errorf("TopStockArticle() = %+v, want nil", got)
	}
}

func TestTopStockArticleAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error","code":"rateLimited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := client.TopStockArticle(context.Background(), "NVDA")
	if err == nil {
		t.Fatal("TopStockArticle() error = nil, want APIError")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusTooManyRequests)
	}
}

func TestAINewsPreservesProviderOrder(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	articles := []models.NewsArticle{
		{Title: "older but highly relevant robotics machine learning story", PublishedAt: now.AddDate(0, 0, -1)},
		{Title: "fresh but plain story", PublishedAt: now},
	}

	var params map[string]string
	srv := newTestServer(t, articles, &params)
	defer srv.Close()

	client := NewClient("test-key",
		WithBaseURL(srv.URL),
		WithClock(func() time.Time { return now }),
	)

	got, err := client.AINews(context.Background())
	if err != nil {
		t.Fatalf("AINews() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("AINews() returned %d articles, want 2", len(got))
	}

	// Order must be the provider's, not relevance order.
	if got[0].Title != articles[0].Title || got[1].Title != articles[1].Title {
		t.Errorf("AINews() reordered results: %q, %q", got[0].Title, got[1].Title)
	}
	for i, a := range got {
		if a.RelevanceScore == 0 {
			t.Errorf("article %d has no relevance score", i)
		}
	}

	if params["sortBy"] != "publishedAt" {
		t.Errorf("sortBy = %q, want publishedAt", params["sortBy"])
	}
	if params["pageSize"] != "20" {
		t.Errorf("pageSize = %q, want 20", params["pageSize"])
	}
}
