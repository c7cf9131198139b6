package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/domain/model"
	"github.com/courierops/parceltrack/internal/observability/statsd"
)

// DispatchServiceOptions groups dependencies for DispatchService.
type DispatchServiceOptions struct {
	Ledger  core.CommsLedger // Required: durable at-most-once ledger
	Email   core.Messenger   // Optional: nil means the email channel is down
	SMS     core.Messenger   // Optional: nil means the SMS channel is down
	Logger  *slog.Logger     // Optional: structured logger
	Metrics statsd.Sink      // Optional: metrics sink (StatsD-compatible)
}

// DispatchService guarantees at-most-once delivery of each
// (action, job item, service) notification across arbitrarily repeated and
// overlapping sweep runs.
//
// Per key the gate is a three-state machine: unflagged, flagged-success
// (terminal, never sent again), flagged-error (held until an operator
// removes the marker). The pending marker is claimed atomically before the
// transport call, so two racing processes can never both send: the loser
// observes "already flagged" and stands down.
type DispatchService struct {
	ledger  core.CommsLedger
	email   core.Messenger
	sms     core.Messenger
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewDispatchService constructs a new DispatchService.
func NewDispatchService(opts DispatchServiceOptions) (*DispatchService, error) {
	if opts.Ledger == nil {
		return nil, errors.New("CommsLedger is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = statsd.Nop{}
	}

	return &DispatchService{
		ledger:  opts.Ledger,
		email:   opts.Email,
		sms:     opts.SMS,
		logger:  logger.With("component", "dispatch_service"),
		metrics: metrics,
	}, nil
}

// FlagCommsPrevious reports whether any marker, success or error, already
// exists for the key, meaning "do not attempt again". Only a fully unflagged
// key returns false.
func (s *DispatchService) FlagCommsPrevious(
	ctx context.Context,
	action model.CommsAction,
	jobItemID int64,
	serviceCode string,
) (bool, error) {
	key := model.CommsFlag{Action: action, JobItemID: jobItemID, Service: serviceCode}

	sent, err := s.ledger.Exists(ctx, key.WithOutcome(model.OutcomePending))
	if err != nil {
		return false, fmt.Errorf("check success marker: %w", err)
	}
	if sent {
		return true, nil
	}

	failed, err := s.ledger.Exists(ctx, key.WithOutcome(model.OutcomeError))
	if err != nil {
		return false, fmt.Errorf("check error marker: %w", err)
	}
	return failed, nil
}

// FlagCommsParams groups parameters for FlagComms.
type FlagCommsParams struct {
	Action    model.CommsAction
	JobItemID int64
	Service   string
	// Item supplies contact data and message content.
	Item *model.JobItem
	// Dry makes the gate take identical decisions without durable markers or
	// transport calls.
	Dry bool
}

// FlagComms is the full gated-send operation. It returns true when the
// notification is handled (sent now, or already sent/held previously) and
// false when this attempt failed and recorded an error marker. Callers may
// repeat it every batch cycle; at most one transport call ever happens per key.
func (s *DispatchService) FlagComms(ctx context.Context, params FlagCommsParams) (bool, error) {
	if params.Item == nil {
		return false, errors.New("job item is required")
	}
	key := model.CommsFlag{
		Action:    params.Action,
		JobItemID: params.JobItemID,
		Service:   params.Service,
	}
	if err := key.WithOutcome(model.OutcomePending).Validate(); err != nil {
		return false, err
	}

	prev, err := s.FlagCommsPrevious(ctx, params.Action, params.JobItemID, params.Service)
	if err != nil {
		return false, err
	}
	if prev {
		s.logger.DebugContext(ctx, "notification already handled",
			"flag", key.Name())
		s.metrics.Count("dispatch.dedup_skipped", 1, map[string]string{"action": string(params.Action)})
		return true, nil
	}

	recipient, ok := s.recipient(params.Action, params.Item)
	if !ok {
		s.logger.WarnContext(ctx, "invalid contact data for notification",
			"flag", key.Name())
		return false, s.recordError(ctx, key, params.Dry)
	}

	if params.Dry {
		return s.dryOutcome(ctx, key, params.Action), nil
	}

	// Claim the attempt before touching the transport. First writer wins;
	// a loser here means a concurrent run beat us to it.
	claimed, err := s.ledger.CreateIfAbsent(ctx, key.WithOutcome(model.OutcomePending))
	if err != nil {
		return false, fmt.Errorf("claim attempt marker: %w", err)
	}
	if !claimed {
		s.logger.InfoContext(ctx, "lost dispatch race, standing down",
			"flag", key.Name())
		return true, nil
	}

	if err := s.send(ctx, params.Action, recipient, params.Item); err != nil {
		s.logger.ErrorContext(ctx, "notification transport failed",
			"flag", key.Name(),
			"error", err)
		// Hold the key under an error marker before surrendering the claim:
		// the key must never be observably unflagged between the two writes,
		// or a concurrent run could start a second transport attempt.
		if ferr := s.recordError(ctx, key, false); ferr != nil {
			return false, ferr
		}
		if _, rerr := s.ledger.Remove(ctx, key.WithOutcome(model.OutcomePending)); rerr != nil {
			return false, fmt.Errorf("release attempt marker: %w", rerr)
		}
		return false, nil
	}

	s.logger.InfoContext(ctx, "notification sent",
		"flag", key.Name(),
		"recipient", recipient)
	s.metrics.Count("dispatch.sent", 1, map[string]string{"action": string(params.Action)})
	return true, nil
}

// ClearError removes the error marker for a key, returning it to unflagged.
// This is the operator action that re-enables retry; success markers are
// never removable through the service.
func (s *DispatchService) ClearError(
	ctx context.Context,
	action model.CommsAction,
	jobItemID int64,
	serviceCode string,
) (bool, error) {
	key := model.CommsFlag{
		Action:    action,
		JobItemID: jobItemID,
		Service:   serviceCode,
		Outcome:   model.OutcomeError,
	}
	removed, err := s.ledger.Remove(ctx, key)
	if err != nil {
		return false, fmt.Errorf("clear error marker: %w", err)
	}
	return removed, nil
}

// recipient validates and normalizes the contact field for the channel.
func (s *DispatchService) recipient(action model.CommsAction, item *model.JobItem) (string, bool) {
	switch action {
	case model.ActionEmail:
		if model.ValidEmail(item.EmailAddr) {
			return item.EmailAddr, true
		}
	case model.ActionSMS:
		if model.ValidMobile(item.PhoneNbr) {
			return model.NormalizeMobile(item.PhoneNbr), true
		}
	}
	return "", false
}

func (s *DispatchService) send(
	ctx context.Context,
	action model.CommsAction,
	recipient string,
	item *model.JobItem,
) error {
	messenger := s.messenger(action)
	if messenger == nil {
		return fmt.Errorf("%s channel is not configured", action)
	}
	return messenger.Send(ctx, buildMessage(recipient, item))
}

func (s *DispatchService) messenger(action model.CommsAction) core.Messenger {
	switch action {
	case model.ActionEmail:
		return s.email
	case model.ActionSMS:
		return s.sms
	default:
		return nil
	}
}

// recordError creates the durable error marker unless running dry. Always
// reports the gate outcome (false) via nil error; only ledger failures error.
func (s *DispatchService) recordError(ctx context.Context, key model.CommsFlag, dry bool) error {
	s.metrics.Count("dispatch.errored", 1, map[string]string{"action": string(key.Action)})
	if dry {
		return nil
	}
	if _, err := s.ledger.CreateIfAbsent(ctx, key.WithOutcome(model.OutcomeError)); err != nil {
		return fmt.Errorf("record error marker: %w", err)
	}
	return nil
}

// dryOutcome mirrors the real path's boolean without durable writes or
// transport calls: a configured channel would have sent.
func (s *DispatchService) dryOutcome(ctx context.Context, key model.CommsFlag, action model.CommsAction) bool {
	if s.messenger(action) == nil {
		s.logger.WarnContext(ctx, "dry run: channel not configured, would record error",
			"flag", key.Name())
		s.metrics.Count("dispatch.errored", 1, map[string]string{"action": string(action)})
		return false
	}
	s.logger.InfoContext(ctx, "dry run: would send notification",
		"flag", key.Name())
	s.metrics.Count("dispatch.sent", 1, map[string]string{"action": string(action)})
	return true
}

func buildMessage(recipient string, item *model.JobItem) core.Message {
	subject := fmt.Sprintf("Your parcel %s is ready", item.ConnoteNbr)
	body := fmt.Sprintf(
		"Hi %s, your parcel (consignment %s) has been delivered to your nominated collection point.",
		item.ConsumerName, item.ConnoteNbr)
	return core.Message{Recipient: recipient, Subject: subject, Body: body}
}
