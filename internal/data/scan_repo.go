package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/domain/model"
	apperrors "github.com/courierops/parceltrack/internal/errors"
)

const defaultScanMaxRows = 50

// ScanRepo queries the external delivery-status store for scan history.
// The store is read-only and authoritative but not always reachable; every
// connectivity failure folds into ResolutionUnknown so a candidate simply
// carries over to the next run.
type ScanRepo struct {
	DB       *sql.DB
	terminal *model.TerminalMatch
	maxRows  int
	logger   *slog.Logger
}

// ScanRepoConfig holds configuration options for the scan repository.
type ScanRepoConfig struct {
	Terminal *model.TerminalMatch
	MaxRows  int
	Logger   *slog.Logger
}

// NewScanRepo creates a new ScanRepo over the given external store connection.
func NewScanRepo(db *sql.DB, cfg ScanRepoConfig) *ScanRepo {
	maxRows := cfg.MaxRows
	if maxRows <= 0 {
		maxRows = defaultScanMaxRows
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	terminal := cfg.Terminal
	if terminal == nil {
		terminal = model.NewTerminalMatch(nil, nil)
	}

	return &ScanRepo{
		DB:       db,
		terminal: terminal,
		maxRows:  maxRows,
		logger:   logger,
	}
}

var _ core.ScanSource = (*ScanRepo)(nil)

// QueryScans returns the bounded scan history for a reference. itemNbr is
// optional; when empty all items of the consignment are returned.
func (r *ScanRepo) QueryScans(ctx context.Context, connote, itemNbr string) ([]model.DeliveryRecord, error) {
	connote = strings.TrimSpace(connote)
	if connote == "" {
		return nil, apperrors.Validation("connote is required")
	}

	query := `
		SELECT reference, item_nbr, scan_action, scan_description, scan_ts
		FROM delivery_scans
		WHERE reference = $1
		ORDER BY scan_ts DESC
		LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, connote, r.maxRows)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	itemNbr = strings.TrimSpace(itemNbr)
	var out []model.DeliveryRecord
	for rows.Next() {
		var (
			rec  model.DeliveryRecord
			item sql.NullString
			desc sql.NullString
		)
		if err := rows.Scan(&rec.Reference, &item, &rec.ScanAction, &desc, &rec.ScanTS); err != nil {
			return nil, fmt.Errorf("scan delivery record: %w", err)
		}
		rec.ItemNbr = item.String
		rec.ScanDescription = desc.String
		if rec.MatchesItem(itemNbr) {
			out = append(out, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// Resolve answers whether the store holds a terminal scan for the reference.
// Unreachable store yields ResolutionUnknown with no error; only validation
// problems surface as errors.
func (r *ScanRepo) Resolve(ctx context.Context, connote, itemNbr string) (core.Resolution, error) {
	recs, err := r.QueryScans(ctx, connote, itemNbr)
	if err != nil {
		if apperrors.IsValidation(err) {
			return core.ResolutionUnknown, err
		}
		r.logger.WarnContext(ctx, "scan store query failed, treating as unknown",
			"connote", connote,
			"item_nbr", itemNbr,
			"error", err)
		return core.ResolutionUnknown, nil
	}

	if r.terminal.AnyTerminal(recs, itemNbr) {
		return core.ResolutionDelivered, nil
	}
	return core.ResolutionNotDelivered, nil
}
