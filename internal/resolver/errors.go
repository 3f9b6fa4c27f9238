package resolver

import (
	"errors"
	"net/http"
)

var (
	ErrMappingNotFound = errors.New("mapping file not found")
	ErrInvalidMapping  = errors.New("invalid mapping file")
)

// MapHTTPStatus maps resolver errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMappingNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidMapping):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
