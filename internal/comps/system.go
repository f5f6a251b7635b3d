package comps

import (
	"context"

	"github.com/meridianworks/meridian/internal/router"
	"github.com/meridianworks/meridian/pkg/pagination"
)

// System defines the public contract for comp domain operations.
// It is also the comp tag handler.
type System interface {
	router.Handler

	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Comp], error)

	Find(ctx context.Context, id int64) (*Comp, error)
	FindByAddressKey(ctx context.Context, key string) ([]Comp, error)
	Delete(ctx context.Context, id int64) error
}
