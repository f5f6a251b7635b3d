package faillog

import (
	"context"
	"time"

	"github.com/meridianworks/meridian/pkg/pagination"
)

// System defines the public contract for failure log operations.
type System interface {
	Handler() *Handler

	Record(ctx context.Context, cmd RecordCommand) (*Entry, error)
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Entry], error)
	Prune(ctx context.Context, olderThan time.Time) (int, error)
}
