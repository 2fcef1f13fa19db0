package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/turfaa/halodoc-medisend-api/pkg/errors"
	"github.com/turfaa/halodoc-medisend-api/pkg/validator"
)

// ErrorResponse is the flat error body the Medisend API returns.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an API error body. An *apperrors.APIError keeps its
// status, code and message; decode and validation failures become 400s and
// anything else a 500.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		WriteJSON(w, apiErr.StatusCode, ErrorResponse{Code: apiErr.Code, Message: apiErr.Message})
		return
	}

	var valErr *validator.ValidationError
	var decErr *apperrors.DecodeError
	switch {
	case errors.As(err, &valErr):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Code: "VALIDATION_ERROR", Message: valErr.Error()})
	case errors.As(err, &decErr), errors.Is(err, apperrors.ErrInvalidInput):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Code: "NOT_FOUND", Message: "resource not found"})
	default:
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"})
	}
}
