package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/courierops/parceltrack/config"
	"github.com/courierops/parceltrack/internal/adapters/sweeper"
	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/data"
	"github.com/courierops/parceltrack/internal/domain/model"
	"github.com/courierops/parceltrack/internal/extract"
	"github.com/courierops/parceltrack/internal/ledger"
	"github.com/courierops/parceltrack/internal/notify"
	"github.com/courierops/parceltrack/internal/observability/statsd"
	"github.com/courierops/parceltrack/internal/service"
)

// Infra holds the shared infrastructure connections.
type Infra struct {
	LocalDB *sql.DB
	ScanDB  *sql.DB // nil when unconfigured/unreachable
	Redis   redis.UniversalClient
	Metrics *statsd.Client
}

// Close releases every held connection.
func (i *Infra) Close(logger *slog.Logger) {
	if i.LocalDB != nil {
		if err := i.LocalDB.Close(); err != nil {
			logger.Error("close local store failed", "error", err)
		}
	}
	if i.ScanDB != nil {
		if err := i.ScanDB.Close(); err != nil {
			logger.Error("close scan store failed", "error", err)
		}
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			logger.Error("close redis failed", "error", err)
		}
	}
	if i.Metrics != nil {
		if err := i.Metrics.Close(); err != nil {
			logger.Error("close metrics sink failed", "error", err)
		}
	}
}

// ConnectInfra connects the infrastructure the enabled services need.
// Redis is only dialed when the ledger backend asks for it.
func ConnectInfra(cfg *config.AppConfig, logger *slog.Logger) (*Infra, error) {
	localDB, err := ConnectLocalDB(cfg.LocalDB, logger)
	if err != nil {
		return nil, err
	}

	infra := &Infra{
		LocalDB: localDB,
		ScanDB:  ConnectScanDB(cfg.ScanDB, logger),
	}

	if cfg.Ledger.Backend == config.LedgerBackendRedis {
		redisClient, err := ConnectRedis(cfg.Redis, logger)
		if err != nil {
			infra.Close(logger)
			return nil, err
		}
		infra.Redis = redisClient
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Metrics.Enabled,
		Address: cfg.Metrics.Address,
		Prefix:  cfg.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		infra.Close(logger)
		return nil, fmt.Errorf("connect metrics sink: %w", err)
	}
	infra.Metrics = metrics

	return infra, nil
}

// ConnectLedger connects only the infrastructure the configured ledger
// backend needs and returns the ledger with a cleanup func. Used by the admin
// tooling, which must never require the full service graph to inspect or
// clear markers.
func ConnectLedger(cfg *config.AppConfig, logger *slog.Logger) (core.CommsLedger, func(), error) { //nolint:ireturn
	switch cfg.Ledger.Backend {
	case config.LedgerBackendRedis:
		redisClient, err := ConnectRedis(cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.Error("close redis failed", "error", cerr)
			}
		}
		return ledger.NewRedisLedger(redisClient, cfg.Ledger.KeyPrefix), cleanup, nil
	case config.LedgerBackendPostgres:
		db, err := ConnectLocalDB(cfg.LocalDB, logger)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if cerr := db.Close(); cerr != nil {
				logger.Error("close local store failed", "error", cerr)
			}
		}
		return ledger.NewPostgresLedger(db), cleanup, nil
	case config.LedgerBackendFile:
		l, err := ledger.NewFileLedger(cfg.Ledger.Dir, logger)
		if err != nil {
			return nil, nil, err
		}
		return l, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}

// buildLedger constructs the configured comms ledger backend.
//
//nolint:ireturn // callers only ever need the port.
func buildLedger(cfg *config.AppConfig, infra *Infra, logger *slog.Logger) (core.CommsLedger, error) {
	switch cfg.Ledger.Backend {
	case config.LedgerBackendRedis:
		return ledger.NewRedisLedger(infra.Redis, cfg.Ledger.KeyPrefix), nil
	case config.LedgerBackendPostgres:
		return ledger.NewPostgresLedger(infra.LocalDB), nil
	case config.LedgerBackendFile:
		return ledger.NewFileLedger(cfg.Ledger.Dir, logger)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}

// buildMessenger returns nil for an unconfigured gateway; the dispatch gate
// treats a nil channel as a transport failure.
func buildEmailMessenger(cfg *config.AppConfig) (core.Messenger, error) { //nolint:ireturn
	if cfg.Notify.EmailGatewayURL == "" {
		return nil, nil
	}
	return notify.NewEmailClient(notify.EmailConfig{
		GatewayURL: cfg.Notify.EmailGatewayURL,
		From:       cfg.Notify.EmailFrom,
		Timeout:    cfg.Notify.Timeout,
		RetryLimit: cfg.Notify.RetryLimit,
	})
}

func buildSMSMessenger(cfg *config.AppConfig) (core.Messenger, error) { //nolint:ireturn
	if cfg.Notify.SMSGatewayURL == "" {
		return nil, nil
	}
	return notify.NewSMSClient(notify.SMSConfig{
		GatewayURL: cfg.Notify.SMSGatewayURL,
		SenderID:   cfg.Notify.SMSSenderID,
		Timeout:    cfg.Notify.Timeout,
		RetryLimit: cfg.Notify.RetryLimit,
	})
}

// BuildSweepService wires the full service graph for one process.
func BuildSweepService(cfg *config.AppConfig, infra *Infra, logger *slog.Logger) (*service.SweepService, error) {
	terminal := model.NewTerminalMatch(cfg.Sweep.TerminalActions, cfg.Sweep.TerminalDescriptions)

	items := data.NewJobItemRepo(infra.LocalDB, data.JobItemRepoConfig{Logger: logger})

	var scans core.ScanSource
	if infra.ScanDB != nil {
		scans = data.NewScanRepo(infra.ScanDB, data.ScanRepoConfig{
			Terminal: terminal,
			MaxRows:  cfg.ScanDB.MaxRows,
			Logger:   logger,
		})
	}

	commsLedger, err := buildLedger(cfg, infra, logger)
	if err != nil {
		return nil, err
	}

	email, err := buildEmailMessenger(cfg)
	if err != nil {
		return nil, err
	}
	sms, err := buildSMSMessenger(cfg)
	if err != nil {
		return nil, err
	}

	reconciler, err := service.NewReconcileService(service.ReconcileServiceOptions{
		Items:   items,
		Scans:   scans,
		Logger:  logger,
		Metrics: infra.Metrics,
	})
	if err != nil {
		return nil, err
	}

	dispatcher, err := service.NewDispatchService(service.DispatchServiceOptions{
		Ledger:  commsLedger,
		Email:   email,
		SMS:     sms,
		Logger:  logger,
		Metrics: infra.Metrics,
	})
	if err != nil {
		return nil, err
	}

	matcher, err := service.NewPrimaryElectService(service.PrimaryElectServiceOptions{
		Items:       items,
		ServiceCode: cfg.Sweep.ServiceCode,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	var loader service.ExtractLoader
	if cfg.Sweep.ExtractDir != "" {
		loader = extract.NewLoader(extract.LoaderConfig{
			Dir:          cfg.Sweep.ExtractDir,
			TPCodeHeader: cfg.Sweep.TPCodeHeader,
			Logger:       logger,
		})
	}

	return service.NewSweepService(service.SweepServiceOptions{
		Items:      items,
		Reconciler: reconciler,
		Dispatcher: dispatcher,
		Matcher:    matcher,
		Loader:     loader,
		Aging: service.AgingPolicy{
			ReminderWindow:   cfg.Sweep.ReminderWindow(),
			ComplianceWindow: cfg.Sweep.ComplianceWindow(),
		},
		BUIDs:       cfg.Sweep.BUIDs,
		ServiceCode: cfg.Sweep.ServiceCode,
		BatchSize:   cfg.Sweep.BatchSize,
		DryRun:      cfg.DryRun,
		Logger:      logger,
		Metrics:     infra.Metrics,
	})
}

// RunServicesWithShutdown runs every enabled service until completion, a
// failure, or SIGINT/SIGTERM. In batch mode (SWEEP_ONCE=true) services run
// one tick and the process exits; interruption between candidates is always
// safe because every durable write is atomic and idempotent.
func RunServicesWithShutdown(cfg *config.AppConfig, sweep *service.SweepService, logger *slog.Logger) error {
	enabled, err := cfg.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeSweeper] {
		runner, err := sweeper.NewRunner(sweeper.RunnerOptions{
			Sweep:    sweep,
			Interval: cfg.Sweep.Interval,
			Once:     cfg.Sweep.Once,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		g.Go(func() error { return runner.Run(ctx) })
	}

	if enabled[config.ServiceModeCompliance] {
		runner, err := sweeper.NewRunner(sweeper.RunnerOptions{
			Sweep:      sweep,
			Interval:   cfg.Sweep.Interval,
			Once:       cfg.Sweep.Once,
			Compliance: true,
			Logger:     logger,
		})
		if err != nil {
			return err
		}
		g.Go(func() error { return runner.Run(ctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("all services stopped")
	return nil
}
