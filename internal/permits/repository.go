package permits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/meridianworks/meridian/internal/extraction"
	"github.com/meridianworks/meridian/internal/mail"
	"github.com/meridianworks/meridian/internal/normalize"
	"github.com/meridianworks/meridian/internal/router"
	"github.com/meridianworks/meridian/internal/validation"
	"github.com/meridianworks/meridian/pkg/pagination"
	"github.com/meridianworks/meridian/pkg/query"
	"github.com/meridianworks/meridian/pkg/repository"
)

// Extractor is the slice of the extraction engine the permit handler
// needs. *extraction.Engine satisfies it.
type Extractor interface {
	BuildSource(ctx context.Context, msg *mail.Message) string
	Extract(ctx context.Context, class extraction.Class, source string) (*extraction.Merged, error)
}

type repo struct {
	db         *sql.DB
	engine     Extractor
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a permit repository implementing the System interface.
func New(
	db *sql.DB,
	engine Extractor,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		engine:     engine,
		logger:     logger.With("system", "permits"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Handle processes a permit-tagged message: single-pass extraction,
// validation, then insert or gap-fill keyed on the permit number.
func (r *repo) Handle(ctx context.Context, msg *mail.Message) (*router.Outcome, error) {
	source := r.engine.BuildSource(ctx, msg)

	m, err := r.engine.Extract(ctx, extraction.ClassPermit, source)
	if err != nil {
		return nil, fmt.Errorf("extract permit: %w", err)
	}

	if err := validation.Validate(m, source, "permit_number"); err != nil {
		return nil, fmt.Errorf("permit validation: %w", err)
	}

	candidate := fromExtraction(m, msg.SourceRef())
	if candidate.PermitNumber == "" {
		return nil, ErrNoNumber
	}

	if classifiedNonCommercial(candidate.PermitNumber) {
		r.logger.Info("non-commercial permit skipped",
			"permit_number", candidate.PermitNumber,
			"work_type", candidate.WorkType,
		)
		return &router.Outcome{
			Success: true,
			Message: fmt.Sprintf("permit %s is not commercial work; not recorded",
				candidate.PermitNumber),
		}, nil
	}

	if candidate.Value != nil && *candidate.Value < ReportingFloor {
		r.logger.Info("permit below reporting floor",
			"permit_number", candidate.PermitNumber,
			"value", *candidate.Value,
		)
		return &router.Outcome{
			Success: true,
			Message: fmt.Sprintf("permit %s value below reporting threshold; not recorded",
				candidate.PermitNumber),
		}, nil
	}

	existing, err := r.FindByNumber(ctx, candidate.PermitNumber)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find permit by number: %w", err)
	}

	if existing != nil {
		filled := gapFill(existing, candidate)
		if len(filled) == 0 {
			return &router.Outcome{
				Success: true,
				Message: fmt.Sprintf("permit %s already on file; nothing new to add",
					existing.PermitNumber),
				Data: existing,
			}, nil
		}

		updated, err := r.update(ctx, existing)
		if err != nil {
			return nil, fmt.Errorf("gap-fill permit: %w", err)
		}

		r.logger.Info("permit gap-filled",
			"id", updated.ID,
			"permit_number", updated.PermitNumber,
			"filled", filled,
		)
		return &router.Outcome{
			Success: true,
			Message: fmt.Sprintf("permit %s updated: filled %s",
				updated.PermitNumber, strings.Join(filled, ", ")),
			Data: updated,
		}, nil
	}

	created, err := r.create(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("insert permit: %w", err)
	}

	r.logger.Info("permit recorded",
		"id", created.ID,
		"permit_number", created.PermitNumber,
	)
	return &router.Outcome{
		Success: true,
		Message: fmt.Sprintf("permit %s recorded: %s", created.PermitNumber, m.Summary),
		Data:    created,
	}, nil
}

func fromExtraction(m *extraction.Merged, sourceRef string) *Permit {
	p := &Permit{
		PermitNumber: strings.ToUpper(m.String("permit_number")),
		Address:      m.String("address"),
		City:         m.String("city"),
		Owner:        m.String("owner"),
		Contractor:   m.String("contractor"),
		Scope:        m.String("scope"),
		WorkType:     m.String("work_type"),
		SourceRef:    sourceRef,
		Confidence:   m.Confidence,
	}

	if key, ok := normalize.MatchKey(p.Address, p.City); ok {
		p.AddressKey = key
	}
	if d, ok := m.Date("issue_date"); ok {
		p.IssueDate = &d
	}
	if v, ok := m.Float("value"); ok {
		p.Value = &v
	}

	return p
}

func (r *repo) create(ctx context.Context, p *Permit) (*Permit, error) {
	insertQ := `
		INSERT INTO permits(
			permit_number, issue_date, address_key, address, city, owner,
			contractor, scope, work_type, value, source_ref, confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, permit_number, issue_date, address_key, address, city,
				  owner, contractor, scope, work_type, value, source_ref,
				  confidence, created_at`

	created, err := repository.QueryOne(ctx, r.db, insertQ, []any{
		p.PermitNumber, p.IssueDate, p.AddressKey, p.Address, p.City,
		p.Owner, p.Contractor, p.Scope, p.WorkType, p.Value,
		p.SourceRef, p.Confidence,
	}, scanPermit)

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &created, nil
}

func (r *repo) update(ctx context.Context, p *Permit) (*Permit, error) {
	updateQ := `
		UPDATE permits
		SET issue_date = $1, address_key = $2, address = $3, city = $4,
			owner = $5, contractor = $6, scope = $7, work_type = $8, value = $9
		WHERE id = $10
		RETURNING id, permit_number, issue_date, address_key, address, city,
				  owner, contractor, scope, work_type, value, source_ref,
				  confidence, created_at`

	updated, err := repository.QueryOne(ctx, r.db, updateQ, []any{
		p.IssueDate, p.AddressKey, p.Address, p.City, p.Owner,
		p.Contractor, p.Scope, p.WorkType, p.Value, p.ID,
	}, scanPermit)

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &updated, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Permit], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "PermitNumber", "Address", "Scope")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count permits: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPermit)
	if err != nil {
		return nil, fmt.Errorf("query permits: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Permit, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPermit)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) FindByNumber(ctx context.Context, number string) (*Permit, error) {
	q, args := query.NewBuilder(projection).BuildSingle("PermitNumber", strings.ToUpper(number))

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPermit)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM permits WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("permit deleted", "id", id)
	return nil
}
