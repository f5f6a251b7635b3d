package comps

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridianworks/meridian/internal/dedup"
	"github.com/meridianworks/meridian/internal/extraction"
	"github.com/meridianworks/meridian/internal/mail"
	"github.com/meridianworks/meridian/internal/normalize"
	"github.com/meridianworks/meridian/internal/router"
	"github.com/meridianworks/meridian/internal/validation"
	"github.com/meridianworks/meridian/pkg/pagination"
	"github.com/meridianworks/meridian/pkg/query"
	"github.com/meridianworks/meridian/pkg/repository"
)

// Extractor is the slice of the extraction engine the comp handler
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

// New creates a comp repository implementing the System interface.
func New(
	db *sql.DB,
	engine Extractor,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		engine:     engine,
		logger:     logger.With("system", "comps"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Handle processes a comp-tagged message: two-pass extraction,
// validation against the source text, duplicate classification on the
// address key, then a pending record insert. Duplicates are still
// inserted, flagged and linked to the record they duplicate.
func (r *repo) Handle(ctx context.Context, msg *mail.Message) (*router.Outcome, error) {
	source := r.engine.BuildSource(ctx, msg)

	m, err := r.engine.Extract(ctx, extraction.ClassComp, source)
	if err != nil {
		return nil, fmt.Errorf("extract comp: %w", err)
	}

	if err := validation.Validate(m, source, "address"); err != nil {
		return nil, fmt.Errorf("comp validation: %w", err)
	}

	comp, err := fromExtraction(m, msg.SourceRef())
	if err != nil {
		return nil, err
	}

	existing, err := r.FindByAddressKey(ctx, comp.AddressKey)
	if err != nil {
		return nil, fmt.Errorf("find existing comps: %w", err)
	}

	note := classify(comp, existing)

	created, err := r.create(ctx, comp)
	if err != nil {
		return nil, fmt.Errorf("insert comp: %w", err)
	}

	r.logger.Info("comp recorded",
		"id", created.ID,
		"address_key", created.AddressKey,
		"status", created.Status,
		"renewal", created.Renewal,
	)

	message := fmt.Sprintf("comp recorded as %s: %s", created.Status, m.Summary)
	if note != "" {
		message += " (" + note + ")"
	}

	return &router.Outcome{
		Success: true,
		Message: message,
		Data:    created,
	}, nil
}

// fromExtraction builds a pending Comp from a merged extraction.
// Fails only when no usable address key can be derived.
func fromExtraction(m *extraction.Merged, sourceRef string) (*Comp, error) {
	rawAddress := m.String("address")
	key, ok := normalize.MatchKey(rawAddress, m.String("city"))
	if !ok {
		return nil, ErrNoAddress
	}

	c := &Comp{
		AddressKey:      key,
		Address:         rawAddress,
		City:            m.String("city"),
		TransactionType: m.String("transaction_type"),
		Tenant:          m.String("tenant"),
		Landlord:        m.String("landlord"),
		Vendor:          m.String("vendor"),
		Purchaser:       m.String("purchaser"),
		Notes:           m.String("notes"),
		Status:          StatusPending,
		SourceRef:       sourceRef,
		Confidence:      m.Confidence,
	}

	if d, ok := m.Date("start_date"); ok {
		c.StartDate = &d
	}
	if n, ok := m.Int("term_months"); ok {
		c.TermMonths = &n
	}
	if f, ok := m.Float("area_sqft"); ok {
		c.AreaSqft = &f
	}
	if f, ok := m.Float("rate_psf"); ok {
		c.RatePSF = &f
	}
	if f, ok := m.Float("annual_rent"); ok {
		c.AnnualRent = &f
	}
	if f, ok := m.Float("sale_price"); ok {
		c.SalePrice = &f
	}

	return c, nil
}

// classify runs duplicate classification against records sharing the
// candidate's address key and stamps the candidate accordingly. The
// returned note is empty for novel records.
func classify(c *Comp, existing []Comp) string {
	others := make([]dedup.Transaction, len(existing))
	for i, ex := range existing {
		others[i] = dedup.Transaction{
			ID:           ex.ID,
			Counterparty: ex.Counterparty(),
			StartDate:    ex.StartDate,
			EndDate:      leaseEnd(ex.StartDate, ex.TermMonths),
		}
	}

	result := dedup.ClassifyTransaction(dedup.Transaction{
		Counterparty: c.Counterparty(),
		StartDate:    c.StartDate,
	}, others)

	switch result.Outcome {
	case dedup.OutcomeDuplicate:
		c.Status = StatusDuplicate
		c.DuplicateOf = &result.MatchedID
	case dedup.OutcomeRenewal:
		c.Renewal = true
	}

	return result.Reason
}

func leaseEnd(start *time.Time, termMonths *int) *time.Time {
	if start == nil || termMonths == nil {
		return nil
	}
	end := start.AddDate(0, *termMonths, 0)
	return &end
}

func (r *repo) create(ctx context.Context, c *Comp) (*Comp, error) {
	insertQ := `
		INSERT INTO comps(
			address_key, address, city, transaction_type, tenant, landlord,
			vendor, purchaser, start_date, term_months, area_sqft, rate_psf,
			annual_rent, sale_price, notes, status, duplicate_of, renewal,
			source_ref, confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, address_key, address, city, transaction_type, tenant,
				  landlord, vendor, purchaser, start_date, term_months,
				  area_sqft, rate_psf, annual_rent, sale_price, notes, status,
				  duplicate_of, renewal, source_ref, confidence, created_at`

	created, err := repository.QueryOne(ctx, r.db, insertQ, []any{
		c.AddressKey, c.Address, c.City, c.TransactionType, c.Tenant,
		c.Landlord, c.Vendor, c.Purchaser, c.StartDate, c.TermMonths,
		c.AreaSqft, c.RatePSF, c.AnnualRent, c.SalePrice, c.Notes,
		c.Status, c.DuplicateOf, c.Renewal, c.SourceRef, c.Confidence,
	}, scanComp)

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &created, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Comp], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Address", "Tenant", "Notes")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count comps: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanComp)
	if err != nil {
		return nil, fmt.Errorf("query comps: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Comp, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanComp)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) FindByAddressKey(ctx context.Context, key string) ([]Comp, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("AddressKey", &key).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, scanComp)
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM comps WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("comp deleted", "id", id)
	return nil
}
