package leases

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridianworks/meridian/internal/extraction"
	"github.com/meridianworks/meridian/internal/mail"
	"github.com/meridianworks/meridian/internal/normalize"
	"github.com/meridianworks/meridian/internal/router"
	"github.com/meridianworks/meridian/internal/validation"
	"github.com/meridianworks/meridian/pkg/pagination"
	"github.com/meridianworks/meridian/pkg/query"
	"github.com/meridianworks/meridian/pkg/repository"
)

// Extractor is the slice of the extraction engine the lease handlers
// need. *extraction.Engine satisfies it.
type Extractor interface {
	BuildSource(ctx context.Context, msg *mail.Message) string
	Extract(ctx context.Context, class extraction.Class, source string) (*extraction.Merged, error)
}

type repo struct {
	db         *sql.DB
	engine     Extractor
	builder    ModelBuilder
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a lease repository implementing the System interface.
// The builder may be nil when underwriting is not configured; the
// underwrite handler then fails with ErrNoBuilder.
func New(
	db *sql.DB,
	engine Extractor,
	builder ModelBuilder,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		engine:     engine,
		builder:    builder,
		logger:     logger.With("system", "leases"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) DrafterHandler() router.Handler {
	return router.HandlerFunc(r.draft)
}

func (r *repo) UnderwriteHandler() router.Handler {
	return router.HandlerFunc(r.underwrite)
}

// draft processes a drafter-tagged message into a pending lease
// abstract.
func (r *repo) draft(ctx context.Context, msg *mail.Message) (*router.Outcome, error) {
	abstract, m, err := r.extract(ctx, msg)
	if err != nil {
		return nil, err
	}

	created, err := r.create(ctx, abstract)
	if err != nil {
		return nil, fmt.Errorf("insert lease abstract: %w", err)
	}

	r.logger.Info("lease abstract recorded",
		"id", created.ID,
		"tenant", created.Tenant,
	)
	return &router.Outcome{
		Success: true,
		Message: fmt.Sprintf("lease abstract for %s recorded: %s", created.Tenant, m.Summary),
		Data:    created,
	}, nil
}

// underwrite processes an underwrite-tagged message: the same
// extraction as drafting, then the abstract goes to the model builder
// instead of the review queue.
func (r *repo) underwrite(ctx context.Context, msg *mail.Message) (*router.Outcome, error) {
	if r.builder == nil {
		return nil, ErrNoBuilder
	}

	abstract, _, err := r.extract(ctx, msg)
	if err != nil {
		return nil, err
	}

	ref, err := r.builder.Build(ctx, abstract)
	if err != nil {
		return nil, fmt.Errorf("build underwriting model: %w", err)
	}

	r.logger.Info("underwriting model built",
		"tenant", abstract.Tenant,
		"model_ref", ref,
	)
	return &router.Outcome{
		Success: true,
		Message: fmt.Sprintf("underwriting model built for %s: %s", abstract.Tenant, ref),
		Data:    map[string]string{"model_ref": ref},
	}, nil
}

func (r *repo) extract(ctx context.Context, msg *mail.Message) (*Abstract, *extraction.Merged, error) {
	source := r.engine.BuildSource(ctx, msg)

	m, err := r.engine.Extract(ctx, extraction.ClassLease, source)
	if err != nil {
		return nil, nil, fmt.Errorf("extract lease: %w", err)
	}

	if err := validation.Validate(m, source, "tenant", "address"); err != nil {
		return nil, nil, fmt.Errorf("lease validation: %w", err)
	}

	abstract := fromExtraction(m, msg.SourceRef())
	if abstract.Tenant == "" {
		return nil, nil, ErrNoTenant
	}

	return abstract, m, nil
}

func fromExtraction(m *extraction.Merged, sourceRef string) *Abstract {
	a := &Abstract{
		Address:        m.String("address"),
		City:           m.String("city"),
		Tenant:         m.String("tenant"),
		Landlord:       m.String("landlord"),
		RenewalOptions: m.String("renewal_options"),
		Notes:          m.String("notes"),
		Status:         StatusPending,
		SourceRef:      sourceRef,
		Confidence:     m.Confidence,
	}

	if key, ok := normalize.MatchKey(a.Address, a.City); ok {
		a.AddressKey = key
	}
	if d, ok := m.Date("commencement_date"); ok {
		a.CommencementDate = &d
	}
	if d, ok := m.Date("expiry_date"); ok {
		a.ExpiryDate = &d
	}
	if n, ok := m.Int("term_months"); ok {
		a.TermMonths = &n
	}
	if f, ok := m.Float("area_sqft"); ok {
		a.AreaSqft = &f
	}
	if f, ok := m.Float("base_rent_psf"); ok {
		a.BaseRentPSF = &f
	}
	if f, ok := m.Float("deposit"); ok {
		a.Deposit = &f
	}
	if n, ok := m.Int("free_rent_months"); ok {
		a.FreeRentMonths = &n
	}

	// A missing term can be recovered from the commencement and expiry
	// dates.
	if a.TermMonths == nil && a.CommencementDate != nil && a.ExpiryDate != nil {
		months := monthsBetween(*a.CommencementDate, *a.ExpiryDate)
		if months > 0 {
			a.TermMonths = &months
		}
	}

	return a
}

func monthsBetween(start, end time.Time) int {
	years := end.Year() - start.Year()
	months := int(end.Month()) - int(start.Month())
	return years*12 + months
}

func (r *repo) create(ctx context.Context, a *Abstract) (*Abstract, error) {
	insertQ := `
		INSERT INTO lease_abstracts(
			address_key, address, city, tenant, landlord, commencement_date,
			expiry_date, term_months, area_sqft, base_rent_psf, deposit,
			free_rent_months, renewal_options, notes, status, source_ref,
			confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17)
		RETURNING id, address_key, address, city, tenant, landlord,
				  commencement_date, expiry_date, term_months, area_sqft,
				  base_rent_psf, deposit, free_rent_months, renewal_options,
				  notes, status, source_ref, confidence, created_at`

	created, err := repository.QueryOne(ctx, r.db, insertQ, []any{
		a.AddressKey, a.Address, a.City, a.Tenant, a.Landlord,
		a.CommencementDate, a.ExpiryDate, a.TermMonths, a.AreaSqft,
		a.BaseRentPSF, a.Deposit, a.FreeRentMonths, a.RenewalOptions,
		a.Notes, a.Status, a.SourceRef, a.Confidence,
	}, scanAbstract)

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &created, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Abstract], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Tenant", "Address", "Notes")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count lease abstracts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAbstract)
	if err != nil {
		return nil, fmt.Errorf("query lease abstracts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Abstract, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAbstract)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM lease_abstracts WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("lease abstract deleted", "id", id)
	return nil
}
