package main

import (
	"encoding/json"
	"net/http"

	"github.com/meridianworks/meridian/internal/api"
	"github.com/meridianworks/meridian/internal/config"
	"github.com/meridianworks/meridian/internal/gateway"
	"github.com/meridianworks/meridian/internal/infrastructure"
	"github.com/meridianworks/meridian/pkg/module"
)

type Modules struct {
	API     *module.Module
	Gateway *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(cfg, runtime)

	apiModule, err := api.NewModule(cfg, infra, domain)
	if err != nil {
		return nil, err
	}
	gatewayModule := gateway.NewModule(cfg, infra, domain.Router)

	return &Modules{
		API:     apiModule,
		Gateway: gatewayModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Gateway)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
