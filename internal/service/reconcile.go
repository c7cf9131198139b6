// Package service provides the business logic of the parcel lifecycle
// tracker: delivery-status reconciliation, gated notification dispatch,
// primary-elect matching, and the sweep orchestration over all three.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/data"
	"github.com/courierops/parceltrack/internal/domain/model"
	"github.com/courierops/parceltrack/internal/observability/statsd"
)

// ReconcileServiceOptions groups dependencies for ReconcileService.
type ReconcileServiceOptions struct {
	Items   core.JobItemRepository // Required: local job/item store
	Scans   core.ScanSource        // Optional: external delivery-status store
	Logger  *slog.Logger           // Optional: structured logger
	Metrics statsd.Sink            // Optional: metrics sink (StatsD-compatible)
}

// ReconcileService decides, per job item, whether the underlying shipment has
// reached a terminal delivered/collected state. It consults sources in fixed
// priority order (local store, then external scan store, then run-scoped
// extract files) and short-circuits on the first terminal match. The decision is
// "is there any terminal match": a store that answers "not delivered" does
// not veto a later source, it only loses the short-circuit.
//
// The service never mutates job item state; that is the dispatch flow's job.
type ReconcileService struct {
	items   core.JobItemRepository
	scans   core.ScanSource
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewReconcileService constructs a new ReconcileService.
func NewReconcileService(opts ReconcileServiceOptions) (*ReconcileService, error) {
	if opts.Items == nil {
		return nil, errors.New("JobItemRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = statsd.Nop{}
	}

	return &ReconcileService{
		items:   opts.Items,
		scans:   opts.Scans,
		logger:  logger.With("component", "reconcile_service"),
		metrics: metrics,
	}, nil
}

// ResolveParams groups parameters for Resolve.
type ResolveParams struct {
	// BUIDs and ServiceCode scope the local candidate query when Candidates
	// is empty.
	BUIDs       []int64
	ServiceCode string
	// Limit caps the implicit candidate query.
	Limit int
	// Candidates, when non-empty, is the explicit list to resolve instead of
	// querying the local store.
	Candidates []model.Candidate
	// Extracts is the run-scoped extract lookup, letting a single batch both
	// ingest and react to a new extract in one pass. Optional.
	Extracts core.ExtractSource
}

// Resolve returns the job item ids whose shipments one of the sources shows
// as delivered/collected, ascending and without duplicates. Candidates no
// source can answer for are silently carried over to the next run; only a
// local-store failure, which makes the whole batch meaningless, is an error.
func (s *ReconcileService) Resolve(ctx context.Context, params ResolveParams) ([]int64, error) {
	candidates := params.Candidates
	if len(candidates) == 0 {
		var err error
		candidates, err = s.items.FindCandidates(ctx, core.FindCandidatesParams{
			BUIDs:       params.BUIDs,
			ServiceCode: params.ServiceCode,
			Limit:       params.Limit,
		})
		if err != nil {
			return nil, fmt.Errorf("find candidates: %w", err)
		}
	}

	resolved := make(map[int64]struct{})
	unknown := 0
	for _, cand := range candidates {
		cand.Normalize()
		if err := cand.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skipping unresolvable candidate",
				"job_item_id", cand.JobItemID,
				"error", err)
			continue
		}

		outcome, err := s.resolveOne(ctx, cand, params.Extracts)
		if err != nil {
			return nil, err
		}
		switch outcome {
		case core.ResolutionDelivered:
			resolved[cand.JobItemID] = struct{}{}
		case core.ResolutionUnknown:
			// No source could answer; the candidate carries over. The
			// counter is the only visibility a stuck candidate gets, so it
			// is emitted even when metrics are otherwise quiet.
			unknown++
			s.logger.DebugContext(ctx, "no delivery source could answer",
				"job_item_id", cand.JobItemID,
				"connote_nbr", cand.ConnoteNbr,
				"item_nbr", cand.ItemNbr)
		case core.ResolutionNotDelivered:
		}
	}

	if unknown > 0 {
		s.metrics.Count("reconcile.unknown", int64(unknown), nil)
	}
	s.metrics.Count("reconcile.resolved", int64(len(resolved)), nil)

	ids := make([]int64, 0, len(resolved))
	for id := range resolved {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// resolveOne applies the source priority order to a single candidate.
func (s *ReconcileService) resolveOne(
	ctx context.Context,
	cand model.Candidate,
	extracts core.ExtractSource,
) (core.Resolution, error) {
	// Local store first: an item already collected through the normal flow
	// is resolved but ineligible, so it never reaches dispatch.
	item, err := s.items.GetByID(ctx, cand.JobItemID)
	if err != nil {
		if errors.Is(err, data.ErrJobItemNotFound) {
			s.logger.WarnContext(ctx, "candidate references missing job item",
				"job_item_id", cand.JobItemID)
			return core.ResolutionNotDelivered, nil
		}
		// Local store connectivity failure makes the whole batch
		// meaningless; surface it so the orchestration loop aborts the run.
		return core.ResolutionUnknown, fmt.Errorf("load job item %d: %w", cand.JobItemID, err)
	}
	if item.Collected() || item.Notified() {
		return core.ResolutionNotDelivered, nil
	}

	// A candidate may carry only an item number. Sources key their records by
	// either reference, so the item number becomes the lookup reference when
	// the connote is absent.
	reference, itemScope := cand.ConnoteNbr, cand.ItemNbr
	if reference == "" {
		reference, itemScope = cand.ItemNbr, ""
	}

	sawAnswer := false

	// External scan store next. Unreachable yields Unknown, not an error.
	if s.scans != nil {
		res, err := s.scans.Resolve(ctx, reference, itemScope)
		if err != nil {
			s.logger.WarnContext(ctx, "scan store rejected reference",
				"job_item_id", cand.JobItemID,
				"error", err)
		} else {
			if res == core.ResolutionDelivered {
				return core.ResolutionDelivered, nil
			}
			sawAnswer = sawAnswer || res.Definitive()
		}
	}

	// Run-scoped extract files last.
	if extracts != nil {
		if extracts.Delivered(reference, itemScope) {
			return core.ResolutionDelivered, nil
		}
		if len(extracts.Lookup(reference)) > 0 {
			sawAnswer = true
		}
	}

	if !sawAnswer {
		return core.ResolutionUnknown, nil
	}
	return core.ResolutionNotDelivered, nil
}
