// Package sweeper provides the loop adapter that drives the sweep service:
// batch mode runs one tick and returns, continuous mode ticks at a fixed
// interval until the context is cancelled.
package sweeper

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/courierops/parceltrack/internal/service"
)

// Runner drives SweepService ticks.
type Runner struct {
	sweep      *service.SweepService
	interval   time.Duration
	once       bool
	compliance bool
	logger     *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Sweep    *service.SweepService
	Interval time.Duration
	// Once runs a single tick and returns (batch mode).
	Once bool
	// Compliance runs the compliance tick instead of the notification tick.
	Compliance bool
	Logger     *slog.Logger
}

// NewRunner creates a new sweep runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Sweep == nil {
		return nil, errors.New("sweep service is required")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		sweep:      opts.Sweep,
		interval:   interval,
		once:       opts.Once,
		compliance: opts.Compliance,
		logger:     logger.With("component", "sweep_runner"),
	}, nil
}

// Run starts the loop and runs until the context is cancelled. Returns nil
// on graceful shutdown (context.Canceled), error otherwise. A tick failure
// in continuous mode is logged and retried at the next interval: overlapping
// or repeated runs are safe by the gate's idempotence, so there is nothing
// to compensate.
func (r *Runner) Run(ctx context.Context) error {
	if r.once {
		return r.tick(ctx)
	}

	r.logger.InfoContext(ctx, "starting sweep loop", "interval", r.interval)

	// Jitter keeps co-scheduled instances from hammering the stores at the
	// same instant. Overlap itself is harmless.
	if err := r.waitWithJitter(ctx); err != nil {
		return nil //nolint:nilerr // cancellation during startup is a clean shutdown
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	if err := r.tick(ctx); err != nil {
		r.logger.ErrorContext(ctx, "sweep tick failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "sweep loop stopping")
			return nil
		case <-ticker.C:
			if err := r.tick(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				r.logger.ErrorContext(ctx, "sweep tick failed", "error", err)
			}
		}
	}
}

func (r *Runner) tick(ctx context.Context) error {
	if r.compliance {
		overdue, err := r.sweep.ComplianceTick(ctx)
		if err != nil {
			return err
		}
		r.logger.InfoContext(ctx, "compliance tick complete", "overdue", overdue)
		return nil
	}

	_, err := r.sweep.Tick(ctx)
	return err
}

// waitWithJitter delays up to 10% of the interval.
func (r *Runner) waitWithJitter(ctx context.Context) error {
	maxJitter := int64(r.interval / 10)
	if maxJitter <= 0 {
		return nil
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup
		r.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return nil
	}
	jitter := time.Duration(int64(binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter))) // #nosec G115 - bounded by maxJitter

	select {
	case <-time.After(jitter):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
