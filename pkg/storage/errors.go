package storage

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates the requested object or its container does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrAccessDenied indicates the configured credentials cannot read the object.
	ErrAccessDenied = errors.New("object access denied")
	// ErrEmptyKey indicates an empty object key was provided.
	ErrEmptyKey = errors.New("object key must not be empty")
	// ErrInvalidKey indicates the object key contains a path traversal segment.
	ErrInvalidKey = errors.New("object key contains invalid path segment")
	// ErrTooLarge indicates the object exceeds the configured maximum size.
	ErrTooLarge = errors.New("object exceeds maximum size")
)

// MapHTTPStatus maps storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidKey) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
