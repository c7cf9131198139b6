package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/domain/model"
	"github.com/courierops/parceltrack/internal/mocks"
	"github.com/courierops/parceltrack/internal/service"
)

func newTestSweep(t *testing.T, items core.JobItemRepository) *service.SweepService {
	t.Helper()

	reconciler, err := service.NewReconcileService(service.ReconcileServiceOptions{Items: items})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	dispatcher, err := service.NewDispatchService(service.DispatchServiceOptions{
		Ledger: mocks.NewMockCommsLedger(ctrl),
	})
	require.NoError(t, err)

	matcher, err := service.NewPrimaryElectService(service.PrimaryElectServiceOptions{
		Items:       items,
		ServiceCode: "pe",
	})
	require.NoError(t, err)

	sweep, err := service.NewSweepService(service.SweepServiceOptions{
		Items:       items,
		Reconciler:  reconciler,
		Dispatcher:  dispatcher,
		Matcher:     matcher,
		Aging:       service.AgingPolicy{ComplianceWindow: 7 * 24 * time.Hour},
		ServiceCode: "pe",
		BatchSize:   10,
	})
	require.NoError(t, err)
	return sweep
}

func TestNewRunner(t *testing.T) {
	t.Run("requires sweep service", func(t *testing.T) {
		_, err := NewRunner(RunnerOptions{})
		assert.Error(t, err)
	})

	t.Run("defaults interval", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		r, err := NewRunner(RunnerOptions{
			Sweep: newTestSweep(t, mocks.NewMockJobItemRepository(ctrl)),
		})
		require.NoError(t, err)
		assert.Equal(t, 5*time.Minute, r.interval)
	})
}

func TestRunnerOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	items := mocks.NewMockJobItemRepository(ctrl)
	items.EXPECT().
		FindCandidates(gomock.Any(), gomock.Any()).
		Return([]model.Candidate{}, nil).
		Times(1)

	r, err := NewRunner(RunnerOptions{Sweep: newTestSweep(t, items), Once: true})
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background()))
}

func TestRunnerOnceCompliance(t *testing.T) {
	ctrl := gomock.NewController(t)
	items := mocks.NewMockJobItemRepository(ctrl)
	items.EXPECT().
		FindAgedPickups(gomock.Any(), gomock.Any()).
		Return([]model.JobItem{}, nil).
		Times(1)

	r, err := NewRunner(RunnerOptions{
		Sweep:      newTestSweep(t, items),
		Once:       true,
		Compliance: true,
	})
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background()))
}

func TestRunnerContinuousStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	items := mocks.NewMockJobItemRepository(ctrl)
	ticked := make(chan struct{}, 1)
	items.EXPECT().
		FindCandidates(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, core.FindCandidatesParams) ([]model.Candidate, error) {
			select {
			case ticked <- struct{}{}:
			default:
			}
			return []model.Candidate{}, nil
		}).
		MinTimes(1)

	r, err := NewRunner(RunnerOptions{
		Sweep:    newTestSweep(t, items),
		Interval: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("runner never ticked")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean shutdown")
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}
