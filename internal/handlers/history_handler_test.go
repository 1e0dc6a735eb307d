package handlers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/models"
	"github.com/marketlens/marketlens/internal/services/history"
)

func newHistoryHandler(t *testing.T) (*HistoryHandler, *history.Store) {
	t.Helper()
	store := history.NewStore(filepath.Join(t.TempDir(), "historical-data.json"), common.GetLogger())
	return NewHistoryHandler(store, common.GetLogger()), store
}

func TestGetHandlerEmptySeries(t *testing.T) {
	handler, _ := newHistoryHandler(t)

	rec := httptest.NewRecorder()
	handler.GetHandler(rec, httptest.NewRequest("GET", "/historical-data", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	// An empty series is an empty JSON array, never null.
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetHandlerReturnsSeries(t *testing.T) {
	handler, store := newHistoryHandler(t)
	require.NoError(t, store.Replace([]models.HistoricalPoint{
		{Date: "2024-04-14", Value: 1000},
		{Date: "2024-04-15", Value: 1050.5},
	}))

	rec := httptest.NewRecorder()
	handler.GetHandler(rec, httptest.NewRequest("GET", "/historical-data", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.HistoricalPoint
	require.NoError(t, decodeBody(rec, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2024-04-14", got[0].Date)
	assert.Equal(t, 1050.5, got[1].Value)
}

func TestGetHandlerRejectsPost(t *testing.T) {
	handler, _ := newHistoryHandler(t)

	rec := httptest.NewRecorder()
	handler.GetHandler(rec, httptest.NewRequest("POST", "/historical-data", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUpdateHandler(t *testing.T) {
	handler, store := newHistoryHandler(t)

	body := `{"data":[{"date":"2024-04-15","value":1234.5}]}`
	rec := httptest.NewRecorder()
	handler.UpdateHandler(rec, httptest.NewRequest("POST", "/update-historical-data", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Data updated successfully"}`, rec.Body.String())

	points, err := store.Points()
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 1234.5, points[0].Value)
}

func TestUpdateHandlerMalformedBody(t *testing.T) {
	handler, _ := newHistoryHandler(t)

	rec := httptest.NewRecorder()
	handler.UpdateHandler(rec, httptest.NewRequest("POST", "/update-historical-data", strings.NewReader(`{not json`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Historical data is required"}`, rec.Body.String())
}
