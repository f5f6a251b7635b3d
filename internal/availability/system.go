package availability

import (
	"context"

	"github.com/meridianworks/meridian/internal/router"
	"github.com/meridianworks/meridian/pkg/pagination"
)

// System defines the public contract for availability domain
// operations. The two tag handlers share one ingest pipeline and
// differ only in extraction class.
type System interface {
	Handler() *Handler
	IndustrialHandler() router.Handler
	OfficeHandler() router.Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Availability], error)

	Find(ctx context.Context, id int64) (*Availability, error)
	Delete(ctx context.Context, id int64) error
}
