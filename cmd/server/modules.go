package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/stagedoc/internal/api"
	"github.com/JaimeStill/stagedoc/internal/config"
	"github.com/JaimeStill/stagedoc/internal/infrastructure"
	"github.com/JaimeStill/stagedoc/pkg/lifecycle"
	"github.com/JaimeStill/stagedoc/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) error {
	return router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	}))

	router.HandleNative("GET /readyz", readyHandler(infra.Lifecycle))

	router.HandleNative("GET /metrics", infra.Metrics.Handler())

	return router
}

func readyHandler(rc lifecycle.ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rc.Ready() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
