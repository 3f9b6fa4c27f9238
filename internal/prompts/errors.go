package prompts

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound       = errors.New("prompt not found")
	ErrDuplicate      = errors.New("prompt name already exists")
	ErrInvalidSection = errors.New("section must be instructions or domain")
	ErrEmptyContent   = errors.New("prompt content is required")
)

// MapHTTPStatus maps prompt domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidSection), errors.Is(err, ErrEmptyContent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
