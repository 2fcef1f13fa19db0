package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turfaa/halodoc-medisend-api/pkg/errors"
	"github.com/turfaa/halodoc-medisend-api/pkg/validator"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// --- WriteJSON ---

func TestWriteJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]string{"key": "value"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteJSON_EncodesData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]any{"next_page": false, "total_count": 3})

	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, false, out["next_page"])
	assert.Equal(t, float64(3), out["total_count"])
}

// --- WriteError ---

func TestWriteError_APIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.NewAPIError(http.StatusNotFound, "NOT_FOUND", "no such product"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrorResponse{Code: "NOT_FOUND", Message: "no such product"}, decodeError(t, rec))
}

func TestWriteError_WrappedAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("update: %w", apperrors.NewAPIError(http.StatusConflict, "STALE", "stale product"))
	WriteError(rec, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "STALE", decodeError(t, rec).Code)
}

func TestWriteError_DecodeError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.MissingField("name"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INVALID_INPUT", body.Code)
	assert.Contains(t, body.Message, `"name"`)
}

func TestWriteError_ValidationError(t *testing.T) {
	type params struct {
		PerPage int `validate:"gte=1"`
	}
	err := validator.Validate(params{})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	WriteError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Contains(t, body.Message, "PerPage")
}

func TestWriteError_NotFoundSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.Wrap(apperrors.ErrNotFound, "find product"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}

func TestWriteError_UnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.NotContains(t, body.Message, "disk on fire")
}
