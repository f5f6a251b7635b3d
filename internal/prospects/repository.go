package prospects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/meridianworks/meridian/internal/dedup"
	"github.com/meridianworks/meridian/internal/extraction"
	"github.com/meridianworks/meridian/internal/mail"
	"github.com/meridianworks/meridian/internal/router"
	"github.com/meridianworks/meridian/internal/validation"
	"github.com/meridianworks/meridian/pkg/pagination"
	"github.com/meridianworks/meridian/pkg/query"
	"github.com/meridianworks/meridian/pkg/repository"
)

// Extractor is the slice of the extraction engine the prospect handler
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

// New creates a prospect repository implementing the System interface.
func New(
	db *sql.DB,
	engine Extractor,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		engine:     engine,
		logger:     logger.With("system", "prospects"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// Handle processes a prospect-tagged message: single-pass extraction,
// then merge into a matching existing contact or insert a new one.
func (r *repo) Handle(ctx context.Context, msg *mail.Message) (*router.Outcome, error) {
	source := r.engine.BuildSource(ctx, msg)

	m, err := r.engine.Extract(ctx, extraction.ClassProspect, source)
	if err != nil {
		return nil, fmt.Errorf("extract prospect: %w", err)
	}

	if err := validation.Validate(m, source, "name"); err != nil {
		return nil, fmt.Errorf("prospect validation: %w", err)
	}

	candidate := &Contact{
		Name:        m.String("name"),
		Company:     m.String("company"),
		Title:       m.String("title"),
		Email:       strings.ToLower(m.String("email")),
		Phone:       m.String("phone"),
		Requirement: m.String("requirement"),
		Notes:       m.String("notes"),
		SourceRef:   msg.SourceRef(),
		Confidence:  m.Confidence,
	}
	if candidate.Name == "" {
		return nil, ErrNoName
	}

	existing, err := r.FindSimilar(ctx, candidate.Name, candidate.Company)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find similar contact: %w", err)
	}

	if existing != nil {
		changed := merge(existing, candidate)
		if len(changed) == 0 {
			return &router.Outcome{
				Success: true,
				Message: fmt.Sprintf("contact %s already on file; nothing new to add", existing.Name),
				Data:    existing,
			}, nil
		}

		updated, err := r.update(ctx, existing)
		if err != nil {
			return nil, fmt.Errorf("merge contact: %w", err)
		}

		r.logger.Info("contact merged",
			"id", updated.ID,
			"name", updated.Name,
			"changed", changed,
		)
		return &router.Outcome{
			Success: true,
			Message: fmt.Sprintf("contact %s updated: %s", updated.Name, strings.Join(changed, ", ")),
			Data:    updated,
		}, nil
	}

	created, err := r.create(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	r.logger.Info("contact recorded", "id", created.ID, "name", created.Name)
	return &router.Outcome{
		Success: true,
		Message: fmt.Sprintf("contact %s recorded: %s", created.Name, m.Summary),
		Data:    created,
	}, nil
}

// FindSimilar returns the best existing match for a person. Candidates
// are narrowed in SQL by the longest name token, then scored with the
// person match heuristic.
func (r *repo) FindSimilar(ctx context.Context, name, company string) (*Contact, error) {
	token := longestToken(name)
	if token == "" {
		return nil, ErrNotFound
	}

	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereContains("Name", &token).
		Build()

	candidates, err := repository.QueryMany(ctx, r.db, q, args, scanContact)
	if err != nil {
		return nil, fmt.Errorf("query contact candidates: %w", err)
	}

	for i := range candidates {
		c := &candidates[i]
		if dedup.PersonMatch(name, company, c.Name, c.Notes+" "+c.Company) {
			return c, nil
		}
	}

	return nil, ErrNotFound
}

func longestToken(name string) string {
	var longest string
	for _, tok := range strings.Fields(name) {
		if len(tok) > len(longest) {
			longest = tok
		}
	}
	return longest
}

func (r *repo) create(ctx context.Context, c *Contact) (*Contact, error) {
	insertQ := `
		INSERT INTO contacts(
			name, company, title, email, phone, requirement, notes,
			source_ref, confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, name, company, title, email, phone, requirement, notes,
				  source_ref, confidence, created_at, updated_at`

	created, err := repository.QueryOne(ctx, r.db, insertQ, []any{
		c.Name, c.Company, c.Title, c.Email, c.Phone, c.Requirement,
		c.Notes, c.SourceRef, c.Confidence,
	}, scanContact)

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &created, nil
}

func (r *repo) update(ctx context.Context, c *Contact) (*Contact, error) {
	updateQ := `
		UPDATE contacts
		SET company = $1, title = $2, email = $3, phone = $4,
			requirement = $5, notes = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING id, name, company, title, email, phone, requirement, notes,
				  source_ref, confidence, created_at, updated_at`

	updated, err := repository.QueryOne(ctx, r.db, updateQ, []any{
		c.Company, c.Title, c.Email, c.Phone, c.Requirement, c.Notes, c.ID,
	}, scanContact)

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &updated, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Contact], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Company", "Requirement", "Notes")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanContact)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Contact, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanContact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM contacts WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("contact deleted", "id", id)
	return nil
}
