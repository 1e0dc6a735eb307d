package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/models"
	"github.com/marketlens/marketlens/internal/services/analysis"
)

type fakeAnalyzer struct {
	result string
	err    error

	gotSymbol string
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, stock models.Opportunity) (string, error) {
	a.gotSymbol = stock.Symbol
	return a.result, a.err
}

func TestAnalyzeHandler(t *testing.T) {
	validBody := `{"stockData":{"symbol":"NVDA","currentPrice":450.25}}`

	tests := []struct {
		name       string
		method     string
		body       string
		analyzer   *fakeAnalyzer
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "successful analysis",
			method:     "POST",
			body:       validBody,
			analyzer:   &fakeAnalyzer{result: "A solid entry point after the pullback."},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"analysis": "A solid entry point after the pullback."},
		},
		{
			name:       "rejects GET",
			method:     "GET",
			body:       "",
			analyzer:   &fakeAnalyzer{},
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   map[string]string{"message": "Method not allowed"},
		},
		{
			name:       "missing stock data",
			method:     "POST",
			body:       `{}`,
			analyzer:   &fakeAnalyzer{},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"message": "Stock data is required"},
		},
		{
			name:       "malformed body",
			method:     "POST",
			body:       `{not json`,
			analyzer:   &fakeAnalyzer{},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"message": "Stock data is required"},
		},
		{
			name:       "missing API key",
			method:     "POST",
			body:       validBody,
			analyzer:   &fakeAnalyzer{err: analysis.ErrNotConfigured},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]string{"message": "Server configuration error"},
		},
		{
			name:       "upstream failure",
			method:     "POST",
			body:       validBody,
			analyzer:   &fakeAnalyzer{err: errors.New("claude API call failed: boom")},
			wantStatus: http.StatusInternalServerError,
			wantBody: map[string]string{
				"message": "Error generating analysis",
				"error":   "claude API call failed: boom",
				"details": "No additional details available",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAnalysisHandler(tt.analyzer, common.GetLogger())

			req := httptest.NewRequest(tt.method, "/claude-analysis", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.AnalyzeHandler(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got map[string]string
			require.NoError(t, decodeBody(rec, &got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestAnalyzeHandlerPassesRecordThrough(t *testing.T) {
	analyzer := &fakeAnalyzer{result: "ok"}
	handler := NewAnalysisHandler(analyzer, common.GetLogger())

	req := httptest.NewRequest("POST", "/claude-analysis",
		strings.NewReader(`{"stockData":{"symbol":"AMD"}}`))
	rec := httptest.NewRecorder()

	handler.AnalyzeHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AMD", analyzer.gotSymbol)
}
