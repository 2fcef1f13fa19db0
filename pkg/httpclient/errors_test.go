package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turfaa/halodoc-medisend-api/pkg/errors"
)

// makeResponse creates an *http.Response with the given status code and body string.
func makeResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_NotFound(t *testing.T) {
	resp := makeResponse(http.StatusNotFound, `{"code":"NOT_FOUND","message":"no such product"}`)
	err := ParseResponseError(resp)
	require.Error(t, err)

	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %T: %v", err, err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "no such product", apiErr.Message)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestParseResponseError_Unauthorized(t *testing.T) {
	resp := makeResponse(http.StatusUnauthorized, `{"code":"SESSION_EXPIRED","message":"login again"}`)
	err := ParseResponseError(resp)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "SESSION_EXPIRED", apiErr.Code)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestParseResponseError_MissingFields(t *testing.T) {
	resp := makeResponse(http.StatusBadRequest, `{"detail":"something else"}`)
	err := ParseResponseError(resp)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, apperrors.UnknownCode, apiErr.Code)
	assert.Equal(t, "Bad Request", apiErr.Message)
}

func TestParseResponseError_NonJSONBody(t *testing.T) {
	resp := makeResponse(http.StatusBadGateway, "<html>upstream timeout</html>\n")
	err := ParseResponseError(resp)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, apperrors.UnknownCode, apiErr.Code)
	assert.Equal(t, "<html>upstream timeout</html>", apiErr.Message)
	assert.True(t, errors.Is(err, apperrors.ErrInternal))
}

func TestParseResponseError_EmptyBody(t *testing.T) {
	resp := makeResponse(http.StatusServiceUnavailable, "")
	err := ParseResponseError(resp)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Service Unavailable", apiErr.Message)
	assert.True(t, errors.Is(err, apperrors.ErrServiceUnavail))
}

func TestParseResponseError_LongBodyTruncated(t *testing.T) {
	resp := makeResponse(http.StatusInternalServerError, strings.Repeat("x", 2000))
	err := ParseResponseError(resp)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Len(t, apiErr.Message, 515)
	assert.True(t, strings.HasSuffix(apiErr.Message, "..."))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(400))
	assert.True(t, IsClientError(404))
	assert.True(t, IsClientError(499))
	assert.False(t, IsClientError(399))
	assert.False(t, IsClientError(500))
	assert.False(t, IsClientError(200))
}
