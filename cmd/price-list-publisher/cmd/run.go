package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/price-list-publisher/internal/api/handlers"
	"github.com/donaldgifford/price-list-publisher/internal/engine"
	"github.com/donaldgifford/price-list-publisher/internal/report"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one publication and exit",
		Example: `  price-list-publisher run
  price-list-publisher run --dry-run --json`,
		RunE: runOnce,
	}
}

func runOnce(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Schedule.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Schedule.RunTimeout)
		defer cancel()
	}

	a, err := newApp(ctx, cfg, log, appOptions{dryRun: dryRun()})
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	rep, err := a.engine.Run(ctx)
	if err != nil && !errors.Is(err, engine.ErrNoData) {
		return err
	}

	summary := handlers.NewRunSummary(rep)
	if jsonOutput() {
		if err := report.JSON(os.Stdout, summary); err != nil {
			return err
		}
	} else if err := report.RunSummary(os.Stdout, &summary); err != nil {
		return err
	}

	if rep.Status == domain.RunStatusFailed || rep.Status == domain.RunStatusPartial {
		return fmt.Errorf("run %s finished %s: %w", rep.RunID, rep.Status, rep.Err())
	}
	return nil
}
