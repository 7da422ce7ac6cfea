package api

import (
	"github.com/JaimeStill/stagedoc/internal/config"
	"github.com/JaimeStill/stagedoc/internal/infrastructure"
	"github.com/JaimeStill/stagedoc/internal/workflow"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Workflow       *workflow.Runtime
	MaxRequestSize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Workflow:       scoped.WorkflowRuntime(scoped.Logger),
		MaxRequestSize: cfg.API.MaxRequestSizeBytes(),
	}
}
