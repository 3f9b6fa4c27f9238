package documents

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/stapler/internal/manifest"
	"github.com/JaimeStill/stapler/internal/provider"
	"github.com/JaimeStill/stapler/internal/resolver"
)

// Domain errors for document operations.
var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicate      = errors.New("document already exists")
	ErrInvalidRequest = errors.New("invalid request")
	ErrArchive        = errors.New("page archive failed")
)

// MapHTTPStatus maps document domain errors, and the processing errors that
// surface through Process, to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, manifest.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, resolver.ErrMappingNotFound) || errors.Is(err, resolver.ErrInvalidMapping) {
		return resolver.MapHTTPStatus(err)
	}
	if errors.Is(err, provider.ErrAgent) || errors.Is(err, provider.ErrParse) {
		return provider.MapHTTPStatus(err)
	}
	return http.StatusInternalServerError
}
