// Command parceltrack-admin is the operator tool over the comms ledger:
// inspect the markers recorded for a job item, check a single flag, and clear
// error markers to re-enable a held notification.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/courierops/parceltrack/config"
	"github.com/courierops/parceltrack/internal/bootstrap"
	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/domain/model"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const commandTimeout = 2 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"list-flags": {
			name:        "list-flags",
			description: "List the comms markers recorded for a job item",
			run:         runListFlags,
		},
		"check-flag": {
			name:        "check-flag",
			description: "Report whether one comms flag exists",
			run:         runCheckFlag,
		},
		"clear-error": {
			name:        "clear-error",
			description: "Remove an error marker so the next sweep retries the notification",
			run:         runClearError,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: parceltrack-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	for _, c := range commands() {
		if err := writef(os.Stdout, "  %-14s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func runListFlags(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-flags", flag.ContinueOnError)
	jobItemID := fs.Int64("job-item-id", 0, "job item id to list markers for (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *jobItemID <= 0 {
		return fmt.Errorf("--job-item-id is required")
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	commsLedger, cleanup, err := bootstrap.ConnectLedger(&cmdCtx.Config, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer cleanup()

	flags, err := commsLedger.List(ctx, *jobItemID)
	if err != nil {
		return fmt.Errorf("list markers: %w", err)
	}
	if len(flags) == 0 {
		return writef(os.Stdout, "no markers recorded for job item %d\n", *jobItemID)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "MARKER\tACTION\tSERVICE\tOUTCOME"); err != nil {
		return err
	}
	for _, f := range flags {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name(), f.Action, f.Service, f.Outcome); err != nil {
			return err
		}
	}
	return w.Flush()
}

func runCheckFlag(cmdCtx *commandContext, args []string) error {
	flagValue, err := parseFlagArg("check-flag", args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	commsLedger, cleanup, err := bootstrap.ConnectLedger(&cmdCtx.Config, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer cleanup()

	exists, err := commsLedger.Exists(ctx, flagValue)
	if err != nil {
		return fmt.Errorf("check marker: %w", err)
	}
	if exists {
		return writef(os.Stdout, "%s: present\n", flagValue.Name())
	}
	return writef(os.Stdout, "%s: absent\n", flagValue.Name())
}

func runClearError(cmdCtx *commandContext, args []string) error {
	flagValue, err := parseFlagArg("clear-error", args)
	if err != nil {
		return err
	}
	// Only error markers are clearable; success markers are proof-of-send.
	flagValue = flagValue.WithOutcome(model.OutcomeError)

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, commandTimeout)
	defer cancel()

	commsLedger, cleanup, err := bootstrap.ConnectLedger(&cmdCtx.Config, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer cleanup()

	removed, err := clearError(ctx, commsLedger, flagValue)
	if err != nil {
		return err
	}
	if !removed {
		return writef(os.Stdout, "%s: no error marker to clear\n", flagValue.Name())
	}
	cmdCtx.Logger.InfoContext(ctx, "error marker cleared", "flag", flagValue.Name())
	return nil
}

func clearError(ctx context.Context, l core.CommsLedger, f model.CommsFlag) (bool, error) {
	removed, err := l.Remove(ctx, f)
	if err != nil {
		return false, fmt.Errorf("clear error marker: %w", err)
	}
	return removed, nil
}

// parseFlagArg parses the shared --action/--job-item-id/--service triple.
func parseFlagArg(name string, args []string) (model.CommsFlag, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	action := fs.String("action", "", "notification channel: email or sms (required)")
	jobItemID := fs.Int64("job-item-id", 0, "job item id (required)")
	service := fs.String("service", "", "service code, e.g. pe (required)")
	if err := fs.Parse(args); err != nil {
		return model.CommsFlag{}, err
	}

	f := model.CommsFlag{
		Action:    model.CommsAction(*action),
		JobItemID: *jobItemID,
		Service:   *service,
		Outcome:   model.OutcomePending,
	}
	if err := f.Validate(); err != nil {
		return model.CommsFlag{}, err
	}
	return f, nil
}

func writef(w *os.File, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
