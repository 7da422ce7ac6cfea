// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/stagedoc/internal/config"
	"github.com/JaimeStill/stagedoc/internal/infrastructure"
	"github.com/JaimeStill/stagedoc/pkg/middleware"
	"github.com/JaimeStill/stagedoc/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	spec, err := buildSpec(cfg)
	if err != nil {
		return nil, fmt.Errorf("build openapi spec: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, spec)

	return module.New(cfg.API.BasePath, mux,
		middleware.RequestID(),
		middleware.CORS(&cfg.API.CORS),
		middleware.Logger(runtime.Logger),
		middleware.MaxBytes(runtime.MaxRequestSize),
	)
}
