package analysis

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/stagedoc/internal/workflow"
	"github.com/JaimeStill/stagedoc/pkg/locator"
	"github.com/JaimeStill/stagedoc/pkg/storage"
)

// ErrInvalidRequest indicates a request body that cannot be decoded or
// names no image.
var ErrInvalidRequest = errors.New("invalid request")

// MapHTTPStatus classifies errors as client-caused (4xx) or server-caused (5xx).
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, workflow.ErrValidation),
		errors.Is(err, locator.ErrMalformed):
		return http.StatusBadRequest
	}
	if status := storage.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusInternalServerError
}
