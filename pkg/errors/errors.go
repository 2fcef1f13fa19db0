package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal error")
	ErrServiceUnavail = errors.New("service unavailable")

	ErrMissingField = errors.New("missing required field")
	ErrInvalidType  = errors.New("invalid field type")
)

// UnknownCode is used when an error body carries no code.
const UnknownCode = "UNKNOWN"

// APIError is a non-200 response from the Medisend API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

// NewAPIError builds an APIError for the given status. A blank code or message
// falls back to UnknownCode and the HTTP status text.
func NewAPIError(status int, code, message string) *APIError {
	if code == "" {
		code = UnknownCode
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{
		StatusCode: status,
		Code:       code,
		Message:    message,
		Err:        sentinelForStatus(status),
	}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d-%s: %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrInvalidInput
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusServiceUnavailable:
		return ErrServiceUnavail
	case status >= 500:
		return ErrInternal
	default:
		return nil
	}
}

// DecodeError reports a payload field that could not be mapped onto a record.
// Field is a dotted path such as "inventory.id" or "images[1].url".
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode field %q: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MissingField creates a DecodeError for an absent required key.
func MissingField(field string) *DecodeError {
	return &DecodeError{Field: field, Err: ErrMissingField}
}

// InvalidType creates a DecodeError for a key holding a value of the wrong type.
func InvalidType(field, want string, got any) *DecodeError {
	return &DecodeError{
		Field: field,
		Err:   fmt.Errorf("%w: want %s, got %T", ErrInvalidType, want, got),
	}
}

// Nest prefixes the field path of a DecodeError with parent. Other errors are
// wrapped with the parent name.
func Nest(err error, parent string) error {
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		return fmt.Errorf("%s: %w", parent, err)
	}
	field := parent
	switch {
	case decErr.Field == "":
	case strings.HasPrefix(decErr.Field, "["):
		field += decErr.Field
	default:
		field += "." + decErr.Field
	}
	return &DecodeError{Field: field, Err: decErr.Err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// StatusCode returns the HTTP status carried by an APIError anywhere in the
// chain, or 0 when err did not come from an API response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
