package availability

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/meridianworks/meridian/internal/extraction"
	"github.com/meridianworks/meridian/internal/mail"
	"github.com/meridianworks/meridian/internal/router"
	"github.com/meridianworks/meridian/internal/validation"
	"github.com/meridianworks/meridian/pkg/pagination"
	"github.com/meridianworks/meridian/pkg/query"
	"github.com/meridianworks/meridian/pkg/repository"
)

// Extractor is the slice of the extraction engine the availability
// handlers need. *extraction.Engine satisfies it.
type Extractor interface {
	BuildSource(ctx context.Context, msg *mail.Message) string
	ExtractBatch(ctx context.Context, class extraction.Class, source string) ([]*extraction.Merged, error)
}

type repo struct {
	db         *sql.DB
	engine     Extractor
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an availability repository implementing the System interface.
func New(
	db *sql.DB,
	engine Extractor,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		engine:     engine,
		logger:     logger.With("system", "availability"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) IndustrialHandler() router.Handler {
	return router.HandlerFunc(func(ctx context.Context, msg *mail.Message) (*router.Outcome, error) {
		return r.handle(ctx, msg, extraction.ClassIndustrial, KindIndustrial)
	})
}

func (r *repo) OfficeHandler() router.Handler {
	return router.HandlerFunc(func(ctx context.Context, msg *mail.Message) (*router.Outcome, error) {
		return r.handle(ctx, msg, extraction.ClassOffice, KindOffice)
	})
}

// handle processes one availability report: batch extraction, per-item
// validation, skip-and-count insert. A single bad bay never sinks the
// rest of the report; the whole batch failing does fail the message.
func (r *repo) handle(
	ctx context.Context,
	msg *mail.Message,
	class extraction.Class,
	kind string,
) (*router.Outcome, error) {
	source := r.engine.BuildSource(ctx, msg)

	items, err := r.engine.ExtractBatch(ctx, class, source)
	if err != nil {
		return nil, fmt.Errorf("extract %s listings: %w", kind, err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	var tally validation.BatchTally
	var stored []Availability

	for i, m := range items {
		if err := validation.Validate(m, source, "address"); err != nil {
			tally.Skip(fmt.Sprintf("item %d: %v", i+1, err))
			continue
		}

		listing := fromItem(m, kind, msg.SourceRef())
		if listing.AddressKey == "" {
			tally.Skip(fmt.Sprintf("item %d: no usable address", i+1))
			continue
		}

		created, err := r.create(ctx, listing)
		if err != nil {
			tally.Skip(fmt.Sprintf("item %d: %v", i+1, err))
			continue
		}

		tally.Accept()
		stored = append(stored, *created)
	}

	if tally.AllFailed() {
		return nil, fmt.Errorf("all %s listings failed: %s", kind, tally.Summary())
	}

	r.logger.Info("availability report processed",
		"kind", kind,
		"accepted", tally.Accepted,
		"skipped", tally.Skipped,
	)

	return &router.Outcome{
		Success: true,
		Message: fmt.Sprintf("%s listings: %s", kind, tally.Summary()),
		Data:    stored,
	}, nil
}

func (r *repo) create(ctx context.Context, a *Availability) (*Availability, error) {
	insertQ := `
		INSERT INTO availabilities(
			kind, address_key, address, city, unit, floor, area_sqft,
			asking_rate_psf, op_costs_psf, clear_height_ft, loading_doors,
			power, available_date, notes, source_ref, confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16)
		RETURNING id, kind, address_key, address, city, unit, floor,
				  area_sqft, asking_rate_psf, op_costs_psf, clear_height_ft,
				  loading_doors, power, available_date, notes, source_ref,
				  confidence, created_at`

	created, err := repository.QueryOne(ctx, r.db, insertQ, []any{
		a.Kind, a.AddressKey, a.Address, a.City, a.Unit, a.Floor,
		a.AreaSqft, a.AskingRatePSF, a.OpCostsPSF, a.ClearHeightFt,
		a.LoadingDoors, a.Power, a.AvailableDate, a.Notes,
		a.SourceRef, a.Confidence,
	}, scanAvailability)

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &created, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Availability], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Address", "Unit", "Notes")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAvailability)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Availability, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAvailability)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM availabilities WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("listing deleted", "id", id)
	return nil
}
