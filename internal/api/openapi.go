package api

import (
	"github.com/JaimeStill/stagedoc/internal/analysis"
	"github.com/JaimeStill/stagedoc/internal/config"
	"github.com/JaimeStill/stagedoc/pkg/openapi"
)

func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.OpenAPI.Server(cfg.API.BasePath))

	spec.AddPaths("", analysis.Paths())
	spec.Components.AddSchemas(analysis.Schemas())

	return openapi.MarshalJSON(spec)
}
