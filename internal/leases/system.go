package leases

import (
	"context"

	"github.com/meridianworks/meridian/internal/router"
	"github.com/meridianworks/meridian/pkg/pagination"
)

// ModelBuilder turns a lease abstract into an underwriting model and
// returns a reference to the generated artifact. The generator itself
// lives outside this service.
type ModelBuilder interface {
	Build(ctx context.Context, abstract *Abstract) (string, error)
}

// System defines the public contract for lease abstract operations.
type System interface {
	Handler() *Handler
	DrafterHandler() router.Handler
	UnderwriteHandler() router.Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Abstract], error)

	Find(ctx context.Context, id int64) (*Abstract, error)
	Delete(ctx context.Context, id int64) error
}
