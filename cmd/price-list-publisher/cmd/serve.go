package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/price-list-publisher/internal/api"
	"github.com/donaldgifford/price-list-publisher/internal/engine"
	"github.com/donaldgifford/price-list-publisher/internal/tracing"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and the publication scheduler",
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     Version,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			log.Warn("shutting down tracing", "error", err)
		}
	}()

	a, err := newApp(ctx, cfg, log, appOptions{dryRun: dryRun()})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			log.Warn("closing resources", "error", err)
		}
	}()

	a.engine.RecoverStaleRuns(ctx, cfg.Schedule.StaleRunAge)

	loc, _ := cfg.Publish.Location()

	var sched *engine.Scheduler
	if cfg.Schedule.Enabled {
		sched, err = engine.NewScheduler(a.engine, cfg.Schedule.Cron, loc, cfg.Schedule.RunTimeout, log)
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		sched.Start()
		log.Info("publication scheduled", "cron", cfg.Schedule.Cron, "next", sched.Next())
	}

	e := api.NewRouter(api.Deps{
		Store:      a.store,
		Engine:     a.engine,
		Location:   loc,
		Logger:     log,
		Version:    Version,
		RunTimeout: cfg.Schedule.RunTimeout,
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	serveErr := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			log.Error("server error", "error", err)
		}
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if sched != nil {
		select {
		case <-sched.Stop().Done():
		case <-shutdownCtx.Done():
			log.Warn("scheduled run still active at shutdown")
		}
	}

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
