package api

import (
	"net/http"

	"github.com/meridianworks/meridian/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Comps.Handler().Routes(),
		domain.Permits.Handler().Routes(),
		domain.Prospects.Handler().Routes(),
		domain.Availability.Handler().Routes(),
		domain.Leases.Handler().Routes(),
		domain.Failures.Handler().Routes(),
	)
}
