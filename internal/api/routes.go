package api

import (
	"net/http"

	"github.com/JaimeStill/stagedoc/pkg/openapi"
	"github.com/JaimeStill/stagedoc/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, spec []byte) {
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	routes.Register(
		mux,
		domain.Analysis.Handler().Routes(),
	)
}
