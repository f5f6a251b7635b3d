package api

import (
	"github.com/meridianworks/meridian/internal/availability"
	"github.com/meridianworks/meridian/internal/comps"
	"github.com/meridianworks/meridian/internal/config"
	"github.com/meridianworks/meridian/internal/extraction"
	"github.com/meridianworks/meridian/internal/faillog"
	"github.com/meridianworks/meridian/internal/inference"
	"github.com/meridianworks/meridian/internal/leases"
	"github.com/meridianworks/meridian/internal/permits"
	"github.com/meridianworks/meridian/internal/prospects"
	"github.com/meridianworks/meridian/internal/router"
)

// Domain holds all domain systems that comprise the pipeline, plus the
// tag router that binds them to inbound messages.
type Domain struct {
	Failures     faillog.System
	Comps        comps.System
	Permits      permits.System
	Prospects    prospects.System
	Availability availability.System
	Leases       leases.System
	Router       *router.Router
}

// NewDomain creates all domain systems from the API runtime and wires
// each tag to its handler.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	client := inference.New(&cfg.Inference, runtime.Logger)
	engine := extraction.NewEngine(client, runtime.Logger)

	failures := faillog.New(db, runtime.Logger, runtime.Pagination)
	compsSystem := comps.New(db, engine, runtime.Logger, runtime.Pagination)
	permitsSystem := permits.New(db, engine, runtime.Logger, runtime.Pagination)
	prospectsSystem := prospects.New(db, engine, runtime.Logger, runtime.Pagination)
	availabilitySystem := availability.New(db, engine, runtime.Logger, runtime.Pagination)

	builder := leases.NewStorageModelBuilder(runtime.Storage)
	leasesSystem := leases.New(db, engine, builder, runtime.Logger, runtime.Pagination)

	r := router.New(failures, runtime.Logger)
	r.Register(router.TagComp, compsSystem)
	r.Register(router.TagPermit, permitsSystem)
	r.Register(router.TagProspect, prospectsSystem)
	r.Register(router.TagIndustrial, availabilitySystem.IndustrialHandler())
	r.Register(router.TagOffice, availabilitySystem.OfficeHandler())
	r.Register(router.TagDrafter, leasesSystem.DrafterHandler())
	r.Register(router.TagUnderwrite, leasesSystem.UnderwriteHandler())

	return &Domain{
		Failures:     failures,
		Comps:        compsSystem,
		Permits:      permitsSystem,
		Prospects:    prospectsSystem,
		Availability: availabilitySystem,
		Leases:       leasesSystem,
		Router:       r,
	}
}
