package prospects

import (
	"context"

	"github.com/meridianworks/meridian/internal/router"
	"github.com/meridianworks/meridian/pkg/pagination"
)

// System defines the public contract for prospect domain operations.
// It is also the prospect tag handler.
type System interface {
	router.Handler

	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Contact], error)

	Find(ctx context.Context, id int64) (*Contact, error)
	FindSimilar(ctx context.Context, name, company string) (*Contact, error)
	Delete(ctx context.Context, id int64) error
}
