package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/stagedoc/pkg/handlers"
	"github.com/JaimeStill/stagedoc/pkg/routes"
)

// Handler provides HTTP endpoints for analysis operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "analysis"),
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analysis",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/image", Handler: h.Image},
			{Method: "POST", Pattern: "/batch", Handler: h.Batch},
			{Method: "GET", Pattern: "/stages", Handler: h.Stages},
		},
	}
}

// Image extracts text from one image and returns it with a generated description.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	var req ImageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	result, err := h.sys.AnalyzeImage(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Batch runs the staged pipeline over one locator per stage.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.respondDecodeError(w, err)
		return
	}

	result, err := h.sys.AnalyzeBatch(r.Context(), req.Locators)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Stages lists the stage registry.
func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Stages())
}

func (h *Handler) respondDecodeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		handlers.RespondError(
			w, h.logger,
			http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: body exceeds %d bytes", ErrInvalidRequest, maxErr.Limit),
		)
		return
	}
	handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidRequest, err))
}
