package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/courierops/parceltrack/config"
	"github.com/courierops/parceltrack/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	cfgPtr := &cfg

	logStartupInfo(ctx, logger, cfgPtr)

	if err = bootstrap.ValidateServiceConfig(cfgPtr); err != nil {
		return err
	}

	infra, err := bootstrap.ConnectInfra(cfgPtr, logger)
	if err != nil {
		return err
	}
	defer infra.Close(logger)

	sweep, err := bootstrap.BuildSweepService(cfgPtr, infra, logger)
	if err != nil {
		return err
	}

	return bootstrap.RunServicesWithShutdown(cfgPtr, sweep, logger)
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting parceltrack",
		"services", bootstrap.GetEnabledServices(cfg),
		"dry_run", cfg.DryRun,
		"once", cfg.Sweep.Once,
		"service_code", cfg.Sweep.ServiceCode,
		"bu_ids", cfg.Sweep.BUIDs,
		"ledger_backend", string(cfg.Ledger.Backend),
		"scan_store", cfg.HasScanStore(),
		"extract_dir", cfg.Sweep.ExtractDir)
}
