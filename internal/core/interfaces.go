package core

import (
	"context"
	"time"

	"github.com/courierops/parceltrack/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal
// architecture). Service implementations depend on these interfaces, not on
// concrete store/transport implementations.

// FindCandidatesParams groups parameters for JobItemRepository.FindCandidates
// to keep parameter count ≤ 3.
type FindCandidatesParams struct {
	BUIDs       []int64
	ServiceCode string
	Limit       int
}

// FindAgedPickupsParams groups parameters for JobItemRepository.FindAgedPickups.
type FindAgedPickupsParams struct {
	BUIDs       []int64
	ServiceCode string
	CreatedOn   time.Time // items created on or before this instant
	Limit       int
}

// JobItemRepository defines the interface for local job/item store operations.
// MarkPickedUp and MarkNotified are conditional one-shot updates: they only
// write when the column is still NULL and report whether a row changed, so
// overlapping process instances cannot regress or duplicate either field.
type JobItemRepository interface {
	FindCandidates(ctx context.Context, params FindCandidatesParams) ([]model.Candidate, error)
	FindByConnote(ctx context.Context, connote string) ([]model.JobItemWithService, error)
	GetByID(ctx context.Context, id int64) (*model.JobItem, error)
	FindAgedPickups(ctx context.Context, params FindAgedPickupsParams) ([]model.JobItem, error)
	MarkPickedUp(ctx context.Context, id int64, ts time.Time) (bool, error)
	MarkNotified(ctx context.Context, id int64, ts time.Time) (bool, error)
}

// ScanSource is the external delivery-status store: query-by-reference over
// an authoritative scan history. Read-only. Unreachable stores must yield
// ResolutionUnknown, never an error that aborts the sweep.
type ScanSource interface {
	Resolve(ctx context.Context, connote, itemNbr string) (Resolution, error)
}

// ExtractSource is a run-scoped lookup over parsed carrier extract files.
type ExtractSource interface {
	Lookup(reference string) []model.DeliveryRecord
	Delivered(reference, itemNbr string) bool
}

// CommsLedger is the durable at-most-once ledger. CreateIfAbsent must be
// atomic across independent processes: the first writer wins and every loser
// observes created=false. Exists and Remove support the gate's pre-check and
// operator clearing of error markers.
type CommsLedger interface {
	CreateIfAbsent(ctx context.Context, flag model.CommsFlag) (bool, error)
	Exists(ctx context.Context, flag model.CommsFlag) (bool, error)
	Remove(ctx context.Context, flag model.CommsFlag) (bool, error)
	List(ctx context.Context, jobItemID int64) ([]model.CommsFlag, error)
}

// Message is one outbound notification handed to a Messenger.
type Message struct {
	Recipient string // validated email address or normalized mobile number
	Subject   string
	Body      string
}

// Messenger sends one notification over an external transport (mail relay or
// SMS gateway). Errors mean the channel itself failed; contact-data problems
// are decided before a Messenger is ever called.
type Messenger interface {
	Send(ctx context.Context, msg Message) error
}
