package errors

import (
	"context"
	"errors"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError maps database errors to AppError instances:
//   - pgx.ErrNoRows → NotFound
//   - Unique constraint violations → Conflict (the Postgres ledger backend
//     relies on this to detect "already flagged")
//   - Check / NOT NULL violations → Validation
//   - Network-level failures → Unavailable
//   - Context timeouts/cancellations → Timeout/Canceled
//
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "store query timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "store query was canceled", Cause: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "row not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	// Dial/reset failures never carry a PgError. They matter here because an
	// unreachable scan store must downgrade to "unknown", not abort the sweep.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &AppError{Code: ErrCodeUnavailable, Message: "store unreachable", Cause: err}
	}

	return err
}

// mapPgError maps PostgreSQL-specific errors to AppError instances.
func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &AppError{Code: ErrCodeConflict, Message: "row already exists", Cause: pgErr}
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return &AppError{Code: ErrCodeValidation, Message: "row rejected by constraint", Cause: pgErr}
	case pgerrcode.ConnectionException, pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure, pgerrcode.SQLClientUnableToEstablishSQLConnection,
		pgerrcode.TooManyConnections:
		return &AppError{Code: ErrCodeUnavailable, Message: "store unreachable", Cause: pgErr}
	default:
		return &AppError{Code: ErrCodeInternal, Message: "database error", Cause: pgErr}
	}
}
