package permits

import (
	"context"

	"github.com/meridianworks/meridian/internal/router"
	"github.com/meridianworks/meridian/pkg/pagination"
)

// System defines the public contract for permit domain operations.
// It is also the permit tag handler.
type System interface {
	router.Handler

	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Permit], error)

	Find(ctx context.Context, id int64) (*Permit, error)
	FindByNumber(ctx context.Context, number string) (*Permit, error)
	Delete(ctx context.Context, id int64) error
}
