package faillog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridianworks/meridian/pkg/pagination"
	"github.com/meridianworks/meridian/pkg/query"
	"github.com/meridianworks/meridian/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a failure log repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "faillog"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// evictionVictims returns the ids to delete so that at most keep of
// the given entries remain. ids are ordered oldest first, so the
// victims are always the head of the list.
func evictionVictims(ids []int64, keep int) []int64 {
	if len(ids) <= keep {
		return nil
	}
	return ids[:len(ids)-keep]
}

// Record inserts a failure entry and evicts the oldest entries beyond
// the cap within the same transaction, so the log can never grow past
// Cap regardless of interleaved writers.
func (r *repo) Record(ctx context.Context, cmd RecordCommand) (*Entry, error) {
	insertQ := `
		INSERT INTO failure_log(tag, source_ref, message_id, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, logged_at, tag, source_ref, message_id, reason`

	idsQ := `SELECT id FROM failure_log ORDER BY logged_at ASC, id ASC`

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Entry, error) {
		entry, err := repository.QueryOne(ctx, tx, insertQ,
			[]any{cmd.Tag, cmd.SourceRef, cmd.MessageID, cmd.Reason},
			scanEntry,
		)
		if err != nil {
			return Entry{}, fmt.Errorf("insert failure entry: %w", err)
		}

		ids, err := repository.QueryMany(ctx, tx, idsQ, nil, scanID)
		if err != nil {
			return Entry{}, fmt.Errorf("list failure ids: %w", err)
		}

		for _, id := range evictionVictims(ids, Cap) {
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM failure_log WHERE id = $1", id,
			); err != nil {
				return Entry{}, fmt.Errorf("evict failure %d: %w", id, err)
			}
		}

		return entry, nil
	})

	if err != nil {
		return nil, err
	}

	r.logger.Warn("processing failure recorded",
		"id", e.ID,
		"tag", e.Tag,
		"source_ref", e.SourceRef,
		"reason", e.Reason,
	)
	return &e, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Entry], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SourceRef", "Reason")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count failures: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM failure_log WHERE logged_at < $1",
		olderThan,
	)
	if err != nil {
		return 0, fmt.Errorf("prune failures: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	r.logger.Info("failure log pruned", "older_than", olderThan, "removed", rows)
	return int(rows), nil
}
