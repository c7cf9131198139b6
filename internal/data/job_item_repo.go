// Package data implements the repository ports over the two relational
// stores: the operator's local job/item store (read-write) and the external
// delivery-status store (read-only).
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/courierops/parceltrack/internal/errors"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/domain/model"
)

// ErrJobItemNotFound is returned when a job item is not found.
var ErrJobItemNotFound = errors.New("job item not found")

const jobItemColumns = `
  ji.id,
  ji.connote_nbr,
  ji.item_nbr,
  ji.job_id,
  ji.created_ts,
  ji.pickup_ts,
  ji.notify_ts,
  ji.email_addr,
  ji.phone_nbr,
  ji.pieces,
  ji.consumer_name
`

// JobItemRepo provides database operations over the local job/item store.
type JobItemRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// JobItemRepoConfig holds configuration options for the job item repository.
type JobItemRepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// NewJobItemRepo creates a new JobItemRepo instance with the given database
// connection and configuration.
func NewJobItemRepo(db *sql.DB, cfg JobItemRepoConfig) *JobItemRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &JobItemRepo{
		DB:           db,
		timeProvider: tp,
		logger:       logger,
	}
}

var _ core.JobItemRepository = (*JobItemRepo)(nil)

// buildInClause renders "col IN ($n,$n+1,...)" for the given ids, appending
// them to args. Returns "FALSE" for an empty id list so callers never build
// an unbounded query by accident.
func buildInClause(col string, ids []int64, args *[]any) string {
	if len(ids) == 0 {
		return "FALSE"
	}
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		*args = append(*args, id)
		placeholders[i] = fmt.Sprintf("$%d", len(*args))
	}
	return fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ","))
}

// FindCandidates returns job items eligible for a notification sweep:
// items of jobs in the given business units with the given service code that
// have not been notified yet. Ordered ascending by id; ledger-level dedup is
// the dispatch gate's job, not the query's.
func (r *JobItemRepo) FindCandidates(
	ctx context.Context,
	params core.FindCandidatesParams,
) ([]model.Candidate, error) {
	var args []any
	buClause := buildInClause("j.bu_id", params.BUIDs, &args)

	args = append(args, strings.TrimSpace(params.ServiceCode))
	serviceArg := len(args)

	limit := params.Limit
	if limit <= 0 {
		limit = 500
	}
	args = append(args, limit)
	limitArg := len(args)

	query := fmt.Sprintf(`
		SELECT ji.id, ji.connote_nbr, ji.item_nbr
		FROM job_items ji
		JOIN jobs j ON j.id = ji.job_id
		WHERE %s
		  AND j.service_code = $%d
		  AND ji.notify_ts IS NULL
		ORDER BY ji.id ASC
		LIMIT $%d`, buClause, serviceArg, limitArg)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var out []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.JobItemID, &c.ConnoteNbr, &c.ItemNbr); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.Normalize()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

// FindByConnote returns every job item carrying the given connote, paired
// with its job's business unit and service code.
func (r *JobItemRepo) FindByConnote(
	ctx context.Context,
	connote string,
) ([]model.JobItemWithService, error) {
	connote = strings.TrimSpace(connote)
	if connote == "" {
		return nil, apperrors.Validation("connote is required")
	}

	query := fmt.Sprintf(`
		SELECT %s, j.bu_id, j.service_code
		FROM job_items ji
		JOIN jobs j ON j.id = ji.job_id
		WHERE ji.connote_nbr = $1
		ORDER BY ji.id ASC`, jobItemColumns)

	rows, err := r.DB.QueryContext(ctx, query, connote)
	if err != nil {
		return nil, fmt.Errorf("find by connote: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var out []model.JobItemWithService
	for rows.Next() {
		var item model.JobItemWithService
		if err := scanJobItem(rows, &item.JobItem, &item.BUID, &item.ServiceCode); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job items: %w", err)
	}
	return out, nil
}

// GetByID fetches one job item by id.
func (r *JobItemRepo) GetByID(ctx context.Context, id int64) (*model.JobItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM job_items ji
		WHERE ji.id = $1`, jobItemColumns)

	row := r.DB.QueryRowContext(ctx, query, id)
	var item model.JobItem
	if err := scanJobItem(row, &item); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: id %d", ErrJobItemNotFound, id)
		}
		return nil, err
	}
	return &item, nil
}

// FindAgedPickups returns uncollected items created on or before CreatedOn,
// used by the compliance sweep.
func (r *JobItemRepo) FindAgedPickups(
	ctx context.Context,
	params core.FindAgedPickupsParams,
) ([]model.JobItem, error) {
	var args []any
	buClause := buildInClause("j.bu_id", params.BUIDs, &args)

	args = append(args, strings.TrimSpace(params.ServiceCode))
	serviceArg := len(args)
	args = append(args, params.CreatedOn)
	createdArg := len(args)

	limit := params.Limit
	if limit <= 0 {
		limit = 500
	}
	args = append(args, limit)
	limitArg := len(args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM job_items ji
		JOIN jobs j ON j.id = ji.job_id
		WHERE %s
		  AND j.service_code = $%d
		  AND ji.created_ts <= $%d
		  AND ji.pickup_ts IS NULL
		ORDER BY ji.id ASC
		LIMIT $%d`, jobItemColumns, buClause, serviceArg, createdArg, limitArg)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find aged pickups: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var out []model.JobItem
	for rows.Next() {
		var item model.JobItem
		if err := scanJobItem(rows, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aged pickups: %w", err)
	}
	return out, nil
}

// MarkPickedUp records the pickup timestamp exactly once. The conditional
// WHERE keeps overlapping process instances from regressing the field; a
// false return means another run already recorded it.
func (r *JobItemRepo) MarkPickedUp(ctx context.Context, id int64, ts time.Time) (bool, error) {
	return r.markOnce(ctx, "pickup_ts", id, ts)
}

// MarkNotified records the notify timestamp exactly once, with the same
// conditional-update semantics as MarkPickedUp.
func (r *JobItemRepo) MarkNotified(ctx context.Context, id int64, ts time.Time) (bool, error) {
	return r.markOnce(ctx, "notify_ts", id, ts)
}

func (r *JobItemRepo) markOnce(ctx context.Context, column string, id int64, ts time.Time) (bool, error) {
	// column is one of two compile-time constants, never caller input.
	query := fmt.Sprintf(`
		UPDATE job_items
		SET %s = $2
		WHERE id = $1 AND %s IS NULL`, column, column)

	res, err := r.DB.ExecContext(ctx, query, id, ts.UTC())
	if err != nil {
		return false, fmt.Errorf("mark %s: %w", column, apperrors.MapDBError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark %s rows affected: %w", column, err)
	}
	return affected > 0, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobItem(row rowScanner, item *model.JobItem, extra ...any) error {
	var (
		pickupTS sql.NullTime
		notifyTS sql.NullTime
	)
	dest := []any{
		&item.ID,
		&item.ConnoteNbr,
		&item.ItemNbr,
		&item.JobID,
		&item.CreatedTS,
		&pickupTS,
		&notifyTS,
		&item.EmailAddr,
		&item.PhoneNbr,
		&item.Pieces,
		&item.ConsumerName,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return apperrors.MapDBError(err)
	}
	if pickupTS.Valid {
		t := pickupTS.Time
		item.PickupTS = &t
	}
	if notifyTS.Valid {
		t := notifyTS.Time
		item.NotifyTS = &t
	}
	return nil
}
