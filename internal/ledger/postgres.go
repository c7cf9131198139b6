package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/domain/model"
	apperrors "github.com/courierops/parceltrack/internal/errors"
)

// PostgresLedger keeps markers as rows in the local store, guarded by a
// unique constraint over (action, job_item_id, service, outcome). The
// first-writer-wins race is decided by the constraint: the loser's insert
// comes back as a unique violation and is observed as "already flagged".
//
// Schema:
//
//	CREATE TABLE comms_flags (
//	    action      text    NOT NULL,
//	    job_item_id bigint  NOT NULL,
//	    service     text    NOT NULL,
//	    outcome     text    NOT NULL,
//	    created_at  timestamptz NOT NULL DEFAULT now(),
//	    UNIQUE (action, job_item_id, service, outcome)
//	);
type PostgresLedger struct {
	DB *sql.DB
}

// NewPostgresLedger creates a ledger over the given local-store connection.
func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{DB: db}
}

var _ core.CommsLedger = (*PostgresLedger)(nil)

// CreateIfAbsent inserts the marker row; a unique violation means another
// process got there first and is not an error.
func (l *PostgresLedger) CreateIfAbsent(ctx context.Context, flag model.CommsFlag) (bool, error) {
	if err := flag.Validate(); err != nil {
		return false, err
	}

	_, err := l.DB.ExecContext(ctx, `
		INSERT INTO comms_flags (action, job_item_id, service, outcome)
		VALUES ($1, $2, $3, $4)`,
		string(flag.Action), flag.JobItemID, flag.Service, string(flag.Outcome))
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsConflict(mapped) {
			return false, nil
		}
		return false, fmt.Errorf("insert marker %s: %w", flag.Name(), mapped)
	}
	return true, nil
}

// Exists reports whether the marker row is present.
func (l *PostgresLedger) Exists(ctx context.Context, flag model.CommsFlag) (bool, error) {
	if err := flag.Validate(); err != nil {
		return false, err
	}

	var exists bool
	err := l.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM comms_flags
			WHERE action = $1 AND job_item_id = $2 AND service = $3 AND outcome = $4
		)`,
		string(flag.Action), flag.JobItemID, flag.Service, string(flag.Outcome)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check marker %s: %w", flag.Name(), apperrors.MapDBError(err))
	}
	return exists, nil
}

// Remove deletes the marker row, reporting whether it existed.
func (l *PostgresLedger) Remove(ctx context.Context, flag model.CommsFlag) (bool, error) {
	if err := flag.Validate(); err != nil {
		return false, err
	}

	res, err := l.DB.ExecContext(ctx, `
		DELETE FROM comms_flags
		WHERE action = $1 AND job_item_id = $2 AND service = $3 AND outcome = $4`,
		string(flag.Action), flag.JobItemID, flag.Service, string(flag.Outcome))
	if err != nil {
		return false, fmt.Errorf("delete marker %s: %w", flag.Name(), apperrors.MapDBError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete marker %s rows affected: %w", flag.Name(), err)
	}
	return affected > 0, nil
}

// List enumerates markers recorded for a job item, sorted by marker name.
func (l *PostgresLedger) List(ctx context.Context, jobItemID int64) ([]model.CommsFlag, error) {
	rows, err := l.DB.QueryContext(ctx, `
		SELECT action, job_item_id, service, outcome
		FROM comms_flags
		WHERE job_item_id = $1`, jobItemID)
	if err != nil {
		return nil, fmt.Errorf("list markers: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var out []model.CommsFlag
	for rows.Next() {
		var (
			flag    model.CommsFlag
			action  string
			outcome string
		)
		if err := rows.Scan(&action, &flag.JobItemID, &flag.Service, &outcome); err != nil {
			return nil, fmt.Errorf("scan marker: %w", err)
		}
		flag.Action = model.CommsAction(action)
		flag.Outcome = model.CommsOutcome(outcome)
		out = append(out, flag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate markers: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}
