package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func decodeBody(rec *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, 201, map[string]string{"status": "created"})

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"created"}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, 502, "Failed to fetch AI news.")

	assert.Equal(t, 502, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch AI news."}`, rec.Body.String())
}

func TestRequireMethod(t *testing.T) {
	t.Run("matching method passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/ticker", nil)

		assert.True(t, RequireMethod(rec, req, "GET"))
		assert.Equal(t, 200, rec.Code)
	})

	t.Run("mismatched method writes 405", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/api/ticker", nil)

		assert.False(t, RequireMethod(rec, req, "GET"))
		assert.Equal(t, 405, rec.Code)
		assert.JSONEq(t, `{"message":"Method not allowed"}`, rec.Body.String())
	})
}
