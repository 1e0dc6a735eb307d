package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/models"
)

type fakeFeed struct {
	articles []models.NewsArticle
	err      error
}

func (f *fakeFeed) AINews(ctx context.Context) ([]models.NewsArticle, error) {
	return f.articles, f.err
}

func TestFeedHandler(t *testing.T) {
	feed := &fakeFeed{articles: []models.NewsArticle{
		{Title: "Robotics startup raises round", RelevanceScore: 8},
		{Title: "Chip demand outlook", RelevanceScore: 3},
	}}
	handler := NewNewsHandler(feed, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.FeedHandler(rec, httptest.NewRequest("GET", "/api/news", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Articles []models.NewsArticle `json:"articles"`
	}
	require.NoError(t, decodeBody(rec, &got))
	require.Len(t, got.Articles, 2)
	// Provider ordering is preserved; scores ride along.
	assert.Equal(t, "Robotics startup raises round", got.Articles[0].Title)
	assert.Equal(t, float64(8), got.Articles[0].RelevanceScore)
}

func TestFeedHandlerEmptyFeed(t *testing.T) {
	handler := NewNewsHandler(&fakeFeed{}, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.FeedHandler(rec, httptest.NewRequest("GET", "/api/news", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"articles":[]}`, rec.Body.String())
}

func TestFeedHandlerUpstreamFailure(t *testing.T) {
	handler := NewNewsHandler(&fakeFeed{err: errors.New("rate limited")}, common.GetLogger())

	rec := httptest.NewRecorder()
	handler.FeedHandler(rec, httptest.NewRequest("GET", "/api/news", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch AI news."}`, rec.Body.String())
}
