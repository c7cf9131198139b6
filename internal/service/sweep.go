package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/data"
	"github.com/courierops/parceltrack/internal/domain/model"
	"github.com/courierops/parceltrack/internal/observability/statsd"
)

// ExtractLoader supplies the run-scoped extract files for a tick and
// archives them once the tick commits.
type ExtractLoader interface {
	Load() (core.ExtractSource, []string, error)
	Archive(paths []string) error
}

// SweepServiceOptions groups dependencies for SweepService.
type SweepServiceOptions struct {
	Items      core.JobItemRepository // Required: local job/item store
	Reconciler *ReconcileService      // Required
	Dispatcher *DispatchService       // Required
	Matcher    *PrimaryElectService   // Required
	Loader     ExtractLoader          // Optional: extract-file ingestion
	Aging      AgingPolicy            // Required for the compliance tick

	BUIDs       []int64
	ServiceCode string
	BatchSize   int
	DryRun      bool

	TimeProvider data.TimeProvider // Optional: defaults to real time
	Logger       *slog.Logger      // Optional: structured logger
	Metrics      statsd.Sink       // Optional: metrics sink (StatsD-compatible)
}

// SweepService drives one batch pass of the lifecycle flow: ingest extracts,
// reconcile candidates, gate-dispatch notifications, and record the one-shot
// pickup/notify timestamps. Each candidate is handled synchronously and
// independently, so an interrupted run is always safe to resume by simply
// running again.
type SweepService struct {
	items      core.JobItemRepository
	reconciler *ReconcileService
	dispatcher *DispatchService
	matcher    *PrimaryElectService
	loader     ExtractLoader
	aging      AgingPolicy

	buIDs       []int64
	serviceCode string
	batchSize   int
	dryRun      bool

	timeProvider data.TimeProvider
	logger       *slog.Logger
	metrics      statsd.Sink
}

// NewSweepService constructs a new SweepService.
func NewSweepService(opts SweepServiceOptions) (*SweepService, error) {
	if opts.Items == nil {
		return nil, errors.New("JobItemRepository is required")
	}
	if opts.Reconciler == nil {
		return nil, errors.New("ReconcileService is required")
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("DispatchService is required")
	}
	if opts.Matcher == nil {
		return nil, errors.New("PrimaryElectService is required")
	}

	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = statsd.Nop{}
	}

	return &SweepService{
		items:        opts.Items,
		reconciler:   opts.Reconciler,
		dispatcher:   opts.Dispatcher,
		matcher:      opts.Matcher,
		loader:       opts.Loader,
		aging:        opts.Aging,
		buIDs:        opts.BUIDs,
		serviceCode:  opts.ServiceCode,
		batchSize:    opts.BatchSize,
		dryRun:       opts.DryRun,
		timeProvider: tp,
		logger:       logger.With("component", "sweep_service"),
		metrics:      metrics,
	}, nil
}

// SweepResult summarizes one tick.
type SweepResult struct {
	RunID    string
	Resolved []int64
	Notified []int64
	Skipped  int
}

// Tick performs one batch pass. It returns an error only when the local
// store is unusable, in which case the run must abort rather than partially
// commit; everything else is logged and carried over.
func (s *SweepService) Tick(ctx context.Context) (SweepResult, error) {
	started := s.timeProvider.Now()
	result := SweepResult{RunID: uuid.NewString()}
	logger := s.logger.With("run_id", result.RunID, "dry_run", s.dryRun)

	extracts, consumed, err := s.loadExtracts()
	if err != nil {
		return result, err
	}

	resolved, err := s.reconciler.Resolve(ctx, ResolveParams{
		BUIDs:       s.buIDs,
		ServiceCode: s.serviceCode,
		Limit:       s.batchSize,
		Extracts:    extracts,
	})
	if err != nil {
		return result, fmt.Errorf("resolve candidates: %w", err)
	}
	result.Resolved = resolved

	for _, id := range resolved {
		notified, err := s.handleResolved(ctx, logger, id)
		if err != nil {
			return result, err
		}
		if notified {
			result.Notified = append(result.Notified, id)
		} else {
			result.Skipped++
		}
	}

	if !s.dryRun && s.loader != nil && len(consumed) > 0 {
		if err := s.loader.Archive(consumed); err != nil {
			logger.WarnContext(ctx, "archiving extract files failed", "error", err)
		}
	}

	s.metrics.Count("sweep.notified", int64(len(result.Notified)), nil)
	s.metrics.Timing("sweep.tick", s.timeProvider.Now().Sub(started), nil)
	logger.InfoContext(ctx, "sweep tick complete",
		"resolved", len(result.Resolved),
		"notified", len(result.Notified),
		"skipped", result.Skipped)
	return result, nil
}

func (s *SweepService) loadExtracts() (core.ExtractSource, []string, error) {
	if s.loader == nil {
		return nil, nil, nil
	}
	extracts, consumed, err := s.loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load extract files: %w", err)
	}
	return extracts, consumed, nil
}

// handleResolved settles one delivered item: record the collection, and when
// the item is comms-eligible, push both channels through the dispatch gate.
// Reconciliation for the item is already complete; the gate is never
// consulted speculatively.
func (s *SweepService) handleResolved(
	ctx context.Context,
	logger *slog.Logger,
	id int64,
) (bool, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("load resolved job item %d: %w", id, err)
	}

	notified := s.dispatchChannels(ctx, logger, item)

	if !s.dryRun {
		now := s.timeProvider.Now()
		if _, err := s.items.MarkPickedUp(ctx, id, now); err != nil {
			return notified, fmt.Errorf("mark picked up %d: %w", id, err)
		}
		if notified {
			if _, err := s.items.MarkNotified(ctx, id, now); err != nil {
				return notified, fmt.Errorf("mark notified %d: %w", id, err)
			}
		}
	}
	return notified, nil
}

// dispatchChannels runs the eligible channels of one item through the gate.
// Channels without usable contact data are never handed to the gate: bad
// contact data is fixable and must stay visible to future runs rather than
// be buried under a durable error marker.
func (s *SweepService) dispatchChannels(
	ctx context.Context,
	logger *slog.Logger,
	item *model.JobItem,
) bool {
	eligible, err := s.matcher.EligibleJobItems(ctx, item.ConnoteNbr)
	if err != nil {
		logger.WarnContext(ctx, "eligibility check failed",
			"job_item_id", item.ID,
			"error", err)
		return false
	}
	if !slices.Contains(eligible, item.ID) {
		logger.DebugContext(ctx, "resolved item not eligible for comms",
			"job_item_id", item.ID,
			"connote_nbr", item.ConnoteNbr)
		return false
	}

	notified := false
	for _, action := range []model.CommsAction{model.ActionEmail, model.ActionSMS} {
		if !s.channelUsable(action, item) {
			continue
		}
		handled, err := s.dispatcher.FlagComms(ctx, FlagCommsParams{
			Action:    action,
			JobItemID: item.ID,
			Service:   s.serviceCode,
			Item:      item,
			Dry:       s.dryRun,
		})
		if err != nil {
			logger.ErrorContext(ctx, "dispatch gate failed",
				"job_item_id", item.ID,
				"action", string(action),
				"error", err)
			continue
		}
		if handled {
			notified = true
		}
	}
	return notified
}

func (s *SweepService) channelUsable(action model.CommsAction, item *model.JobItem) bool {
	switch action {
	case model.ActionEmail:
		return model.ValidEmail(item.EmailAddr)
	case model.ActionSMS:
		return model.ValidMobile(item.PhoneNbr)
	default:
		return false
	}
}

// ComplianceTick reports uncollected items that have aged past the
// compliance window. Read-only: the report log line is the deliverable.
func (s *SweepService) ComplianceTick(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()
	items, err := s.items.FindAgedPickups(ctx, core.FindAgedPickupsParams{
		BUIDs:       s.buIDs,
		ServiceCode: s.serviceCode,
		CreatedOn:   s.aging.ComplianceCutoff(now),
		Limit:       s.batchSize,
	})
	if err != nil {
		return 0, fmt.Errorf("find aged pickups: %w", err)
	}

	for i := range items {
		item := &items[i]
		s.logger.WarnContext(ctx, "compliance: item uncollected past window",
			"job_item_id", item.ID,
			"connote_nbr", item.ConnoteNbr,
			"created_ts", item.CreatedTS,
			"age_days", int(now.Sub(item.CreatedTS).Hours()/24))
	}
	if len(items) > 0 {
		s.metrics.Count("compliance.overdue", int64(len(items)), nil)
	}
	return len(items), nil
}
