package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/turfaa/halodoc-medisend-api/pkg/errors"
)

// maxErrorBody bounds how much of an error body is read and echoed back.
const maxErrorBody = 1 << 20

// ErrorResponse is the error body returned by the Medisend API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-200 HTTP response and translates
// it into an APIError. A body without code or message falls back to
// apperrors.UnknownCode and the status text; a body that is not JSON becomes
// the message.
//
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("status %d (failed to read body: %w)", resp.StatusCode, err)
	}

	var body ErrorResponse
	if json.Unmarshal(bodyBytes, &body) == nil {
		return apperrors.NewAPIError(resp.StatusCode, body.Code, body.Message)
	}

	return apperrors.NewAPIError(resp.StatusCode, "", truncate(strings.TrimSpace(string(bodyBytes)), 512))
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
