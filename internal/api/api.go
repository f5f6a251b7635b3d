// Package api assembles the REST module: the domain systems' read and
// management endpoints under the configured API base path.
package api

import (
	"fmt"
	"net/http"

	"github.com/meridianworks/meridian/internal/config"
	"github.com/meridianworks/meridian/internal/infrastructure"
	"github.com/meridianworks/meridian/pkg/middleware"
	"github.com/meridianworks/meridian/pkg/module"
	"github.com/meridianworks/meridian/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
	domain *Domain,
) (*module.Module, error) {
	spec, err := buildSpec(cfg)
	if err != nil {
		return nil, fmt.Errorf("build openapi spec: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(infra.Logger.With("module", "api")))

	return m, nil
}
