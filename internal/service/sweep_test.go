package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/data"
	"github.com/courierops/parceltrack/internal/domain/model"
	"github.com/courierops/parceltrack/internal/mocks"
)

// stubLoader hands the sweep a fixed extract source and records archives.
type stubLoader struct {
	src      core.ExtractSource
	paths    []string
	archived [][]string
}

func (l *stubLoader) Load() (core.ExtractSource, []string, error) {
	return l.src, l.paths, nil
}

func (l *stubLoader) Archive(paths []string) error {
	l.archived = append(l.archived, paths)
	return nil
}

type sweepFixture struct {
	items  *mocks.MockJobItemRepository
	email  *mocks.MockMessenger
	ledger *memLedger
	loader *stubLoader
	clock  *data.FixedTimeProvider
	sweep  *SweepService
}

func newSweepFixture(t *testing.T, dryRun bool) *sweepFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	items := mocks.NewMockJobItemRepository(ctrl)
	email := mocks.NewMockMessenger(ctrl)
	ledger := newMemLedger()
	loader := &stubLoader{
		src:   &stubExtracts{delivered: map[string]bool{"CN100": true}},
		paths: []string{"/extracts/stop.txt"},
	}
	clock := data.NewFixedTimeProvider(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))

	reconciler, err := NewReconcileService(ReconcileServiceOptions{Items: items})
	require.NoError(t, err)
	dispatcher, err := NewDispatchService(DispatchServiceOptions{Ledger: ledger, Email: email})
	require.NoError(t, err)
	matcher, err := NewPrimaryElectService(PrimaryElectServiceOptions{Items: items, ServiceCode: "pe"})
	require.NoError(t, err)

	sweep, err := NewSweepService(SweepServiceOptions{
		Items:        items,
		Reconciler:   reconciler,
		Dispatcher:   dispatcher,
		Matcher:      matcher,
		Loader:       loader,
		Aging:        AgingPolicy{ReminderWindow: 4 * 24 * time.Hour, ComplianceWindow: 7 * 24 * time.Hour},
		BUIDs:        []int64{4},
		ServiceCode:  "pe",
		BatchSize:    500,
		DryRun:       dryRun,
		TimeProvider: clock,
	})
	require.NoError(t, err)

	return &sweepFixture{items: items, email: email, ledger: ledger, loader: loader, clock: clock, sweep: sweep}
}

func sweepItem() *model.JobItem {
	return &model.JobItem{
		ID:         10,
		ConnoteNbr: "CN100",
		ItemNbr:    "IT1",
		CreatedTS:  time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		EmailAddr:  "jan@example.com",
	}
}

func expectCandidateQuery(f *sweepFixture, cands ...model.Candidate) {
	f.items.EXPECT().
		FindCandidates(gomock.Any(), core.FindCandidatesParams{
			BUIDs:       []int64{4},
			ServiceCode: "pe",
			Limit:       500,
		}).
		Return(cands, nil)
}

func TestSweepTickNotifiesDeliveredItem(t *testing.T) {
	f := newSweepFixture(t, false)
	now := f.clock.Now()

	expectCandidateQuery(f, model.Candidate{JobItemID: 10, ConnoteNbr: "CN100", ItemNbr: "IT1"})
	// Resolution and settlement each load the item.
	f.items.EXPECT().GetByID(gomock.Any(), int64(10)).Return(sweepItem(), nil).Times(2)
	f.items.EXPECT().FindByConnote(gomock.Any(), "CN100").Return([]model.JobItemWithService{
		{JobItem: *sweepItem(), BUID: 4, ServiceCode: "pe"},
	}, nil)
	f.email.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)
	f.items.EXPECT().MarkPickedUp(gomock.Any(), int64(10), now).Return(true, nil)
	f.items.EXPECT().MarkNotified(gomock.Any(), int64(10), now).Return(true, nil)

	result, err := f.sweep.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, result.Resolved)
	assert.Equal(t, []int64{10}, result.Notified)
	assert.Zero(t, result.Skipped)
	assert.NotEmpty(t, result.RunID)

	assert.True(t, f.ledger.has("email.10.pe"))
	assert.Equal(t, [][]string{{"/extracts/stop.txt"}}, f.loader.archived)
}

// A second pass over the same state must not send or mark anything again:
// the item no longer matches the candidate query once notify_ts is set.
func TestSweepTickSecondPassIsQuiet(t *testing.T) {
	f := newSweepFixture(t, false)

	expectCandidateQuery(f)

	result, err := f.sweep.Tick(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Resolved)
	assert.Empty(t, result.Notified)
}

func TestSweepTickDryRun(t *testing.T) {
	f := newSweepFixture(t, true)

	expectCandidateQuery(f, model.Candidate{JobItemID: 10, ConnoteNbr: "CN100", ItemNbr: "IT1"})
	f.items.EXPECT().GetByID(gomock.Any(), int64(10)).Return(sweepItem(), nil).Times(2)
	f.items.EXPECT().FindByConnote(gomock.Any(), "CN100").Return([]model.JobItemWithService{
		{JobItem: *sweepItem(), BUID: 4, ServiceCode: "pe"},
	}, nil)
	// No Send, no MarkPickedUp/MarkNotified, no archive.

	result, err := f.sweep.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, result.Resolved)
	assert.Equal(t, []int64{10}, result.Notified)

	assert.False(t, f.ledger.has("email.10.pe"))
	assert.Empty(t, f.loader.archived)
}

// Resolved items on a non primary-elect job still get their pickup recorded,
// but nothing is dispatched.
func TestSweepTickIneligibleItemStillMarkedPickedUp(t *testing.T) {
	f := newSweepFixture(t, false)
	now := f.clock.Now()

	expectCandidateQuery(f, model.Candidate{JobItemID: 10, ConnoteNbr: "CN100", ItemNbr: "IT1"})
	f.items.EXPECT().GetByID(gomock.Any(), int64(10)).Return(sweepItem(), nil).Times(2)
	f.items.EXPECT().FindByConnote(gomock.Any(), "CN100").Return([]model.JobItemWithService{
		{JobItem: *sweepItem(), BUID: 4, ServiceCode: "std"},
	}, nil)
	f.items.EXPECT().MarkPickedUp(gomock.Any(), int64(10), now).Return(true, nil)

	result, err := f.sweep.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, result.Resolved)
	assert.Empty(t, result.Notified)
	assert.Equal(t, 1, result.Skipped)
	assert.False(t, f.ledger.has("email.10.pe"))
}

func TestComplianceTick(t *testing.T) {
	f := newSweepFixture(t, false)
	now := f.clock.Now()

	aged := *sweepItem()
	aged.CreatedTS = now.Add(-10 * 24 * time.Hour)

	f.items.EXPECT().
		FindAgedPickups(gomock.Any(), core.FindAgedPickupsParams{
			BUIDs:       []int64{4},
			ServiceCode: "pe",
			CreatedOn:   now.Add(-7 * 24 * time.Hour),
			Limit:       500,
		}).
		Return([]model.JobItem{aged}, nil)

	overdue, err := f.sweep.ComplianceTick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, overdue)
}

func TestComplianceTickStoreFailure(t *testing.T) {
	f := newSweepFixture(t, false)

	f.items.EXPECT().FindAgedPickups(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)

	_, err := f.sweep.ComplianceTick(context.Background())
	assert.Error(t, err)
}
