package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/donaldgifford/price-list-publisher/internal/config"
	"github.com/donaldgifford/price-list-publisher/internal/engine"
	"github.com/donaldgifford/price-list-publisher/internal/lock"
	"github.com/donaldgifford/price-list-publisher/internal/notify"
	"github.com/donaldgifford/price-list-publisher/internal/scrape"
	"github.com/donaldgifford/price-list-publisher/internal/store"
	"github.com/donaldgifford/price-list-publisher/pkg/render"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	store   store.Store
	locker  lock.Locker
	engine  *engine.Engine
	closers []func() error
}

// appOptions selects which parts of the app are wired.
type appOptions struct {
	// memoryStore skips the configured database; used by preview.
	memoryStore bool
	// dryRun replaces the channel transport with a logging one and leaves
	// the ledger untouched.
	dryRun bool
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger, opts appOptions) (*app, error) {
	a := &app{cfg: cfg, log: log}

	driver := cfg.Storage.Driver
	if opts.memoryStore {
		driver = config.DriverMemory
	}
	s, err := openStore(ctx, driver, &cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.store = s
	a.closers = append(a.closers, s.Close)

	a.locker = newLocker(&cfg.Redis, a)

	loc, err := cfg.Publish.Location()
	if err != nil {
		_ = a.close()
		return nil, fmt.Errorf("loading timezone: %w", err)
	}

	a.engine = engine.NewEngine(
		newScraper(&cfg.Source, log),
		a.store,
		newTransport(&cfg.Telegram, log, opts.dryRun),
		engine.WithLogger(log),
		engine.WithLocker(a.locker),
		engine.WithLinker(notify.ChannelLinker{ChatID: cfg.Telegram.ChatID}),
		engine.WithPolicy(cfg.Pricing),
		engine.WithLayout(cfg.Publish.Layout()),
		engine.WithSummaryLayout(cfg.Publish.SummaryLayout()),
		engine.WithCalendar(render.Calendar(cfg.Publish.Calendar)),
		engine.WithLocation(loc),
		engine.WithStampTime(cfg.Publish.StampTime),
		engine.WithWorkers(cfg.Publish.Workers),
		engine.WithKeepDays(cfg.Storage.KeepDays),
		engine.WithDryRun(opts.dryRun),
	)

	return a, nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// openStore connects to the ledger backend and applies migrations.
func openStore(ctx context.Context, driver string, cfg *config.StorageConfig) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch driver {
	case config.DriverPostgres:
		s, err = store.NewPostgresStore(ctx, cfg.Database.DSN())
	case config.DriverSQLite:
		s, err = store.NewSQLiteStore(ctx, cfg.SQLite.Path)
	case config.DriverMemory:
		s = store.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}

	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func newLocker(cfg *config.RedisConfig, a *app) lock.Locker {
	if !cfg.Enabled() {
		return lock.NewLocalLocker()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	a.closers = append(a.closers, client.Close)
	return lock.NewRedisLocker(client,
		lock.WithKeyPrefix(cfg.KeyPrefix),
		lock.WithTTL(cfg.LockTTL),
	)
}

func newScraper(cfg *config.SourceConfig, log *slog.Logger) scrape.Scraper {
	if len(cfg.Snapshots) > 0 {
		return scrape.NewSnapshotScraper(cfg.Snapshots, cfg.Parser(), log)
	}
	return scrape.NewChromeScraper(cfg.URLs,
		scrape.WithParser(cfg.Parser()),
		scrape.WithExecPath(cfg.ChromePath),
		scrape.WithPageTimeout(cfg.PageTimeout),
		scrape.WithScrollPause(cfg.ScrollPause),
		scrape.WithMaxScrolls(cfg.MaxScrolls),
		scrape.WithLogger(log),
	)
}

func newTransport(cfg *config.TelegramConfig, log *slog.Logger, dry bool) notify.Transport {
	if dry || cfg.Token == "" {
		log.Warn("channel transport disabled, messages are only logged", "dry_run", dry)
		return notify.NewNoOpTransport(log)
	}
	return notify.NewTelegramTransport(cfg.Token, cfg.ChatID,
		notify.WithBaseURL(cfg.APIURL),
		notify.WithParseMode(cfg.ParseMode),
		notify.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		notify.WithRateLimiter(notify.NewRateLimiter(
			cfg.RateLimit.PerSecond,
			cfg.RateLimit.Burst,
			cfg.RateLimit.DailyLimit,
		)),
		notify.WithLogger(log),
	)
}
