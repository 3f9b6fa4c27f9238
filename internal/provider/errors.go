package provider

import (
	"errors"
	"net/http"
)

var (
	// ErrEmptyRequest indicates a request carried no pages.
	ErrEmptyRequest = errors.New("request has no pages")
	// ErrUnsupportedPage indicates a page image in a format the engine cannot accept.
	ErrUnsupportedPage = errors.New("unsupported page image")
	// ErrAgent indicates the engine call itself failed.
	ErrAgent = errors.New("sequencing engine call failed")
	// ErrParse indicates the engine answered with content that is not a valid grouping.
	ErrParse = errors.New("sequencing engine response invalid")
)

// MapHTTPStatus maps provider errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrAgent), errors.Is(err, ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
