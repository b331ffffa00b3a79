// Package engine runs publication: it turns a scrape into paginated
// category messages and reconciles them against the ledger and the channel.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/price-list-publisher/internal/lock"
	"github.com/donaldgifford/price-list-publisher/internal/metrics"
	"github.com/donaldgifford/price-list-publisher/internal/notify"
	"github.com/donaldgifford/price-list-publisher/internal/scrape"
	"github.com/donaldgifford/price-list-publisher/internal/store"
	"github.com/donaldgifford/price-list-publisher/pkg/catalog"
	"github.com/donaldgifford/price-list-publisher/pkg/pricing"
	"github.com/donaldgifford/price-list-publisher/pkg/render"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

const runLockKey = "run"

var tracer = otel.Tracer("github.com/donaldgifford/price-list-publisher/internal/engine")

// Engine orchestrates scraping, formatting, reconciliation and the summary.
type Engine struct {
	scraper    scrape.Scraper
	store      store.Store
	transport  notify.Transport
	reconciler *Reconciler
	locker     lock.Locker
	linker     notify.Linker
	log        *slog.Logger

	policy    pricing.Policy
	layout    render.Layout
	summary   render.SummaryLayout
	calendar  render.Calendar
	location  *time.Location
	stampTime bool
	workers   int
	keepDays  int
	dryRun    bool
	now       func() time.Time
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	sc scrape.Scraper,
	s store.Store,
	t notify.Transport,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		scraper:   sc,
		store:     s,
		transport: t,
		locker:    lock.NewLocalLocker(),
		linker:    notify.ChannelLinker{},
		log:       slog.Default(),
		policy:    pricing.DefaultPolicy(),
		layout:    render.DefaultLayout(),
		summary:   render.SummaryLayout{Labels: render.DefaultSummaryLabels()},
		calendar:  render.CalendarGregorian,
		location:  time.UTC,
		workers:   1,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	if ep, ok := eng.transport.(notify.Ephemeral); ok && ep.Ephemeral() {
		eng.dryRun = true
	}
	eng.reconciler = NewReconciler(eng.transport, eng.store, eng.locker, eng.log)
	eng.reconciler.now = eng.now
	eng.reconciler.dryRun = eng.dryRun
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithLocker sets the locker guarding runs and ledger partitions.
func WithLocker(l lock.Locker) EngineOption {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLinker sets how summary buttons link to category messages.
func WithLinker(l notify.Linker) EngineOption {
	return func(e *Engine) {
		e.linker = l
	}
}

// WithPolicy sets the price markup policy.
func WithPolicy(p pricing.Policy) EngineOption {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithLayout sets the message layout.
func WithLayout(l render.Layout) EngineOption {
	return func(e *Engine) {
		e.layout = l
	}
}

// WithSummaryLayout sets the navigation message layout.
func WithSummaryLayout(l render.SummaryLayout) EngineOption {
	return func(e *Engine) {
		e.summary = l
	}
}

// WithCalendar sets the calendar of header dates.
func WithCalendar(c render.Calendar) EngineOption {
	return func(e *Engine) {
		e.calendar = c
	}
}

// WithLocation sets the time zone that decides the publication day.
func WithLocation(loc *time.Location) EngineOption {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithStampTime adds the wall clock time to headers. Every run then edits
// every message, since the header text changes.
func WithStampTime(enabled bool) EngineOption {
	return func(e *Engine) {
		e.stampTime = enabled
	}
}

// WithWorkers sets how many categories are reconciled concurrently.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		e.workers = max(n, 1)
	}
}

// WithKeepDays sets how many past days of ledger entries survive pruning.
func WithKeepDays(n int) EngineOption {
	return func(e *Engine) {
		e.keepDays = max(n, 0)
	}
}

// WithDryRun plans every run against the ledger without calling the
// transport or writing ledger entries. Transports with ephemeral IDs always
// run dry.
func WithDryRun(enabled bool) EngineOption {
	return func(e *Engine) {
		e.dryRun = enabled
	}
}

// DryRun reports whether runs only plan.
func (e *Engine) DryRun() bool {
	return e.dryRun
}

// WithNowFunc overrides the clock.
func WithNowFunc(fn func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = fn
	}
}

// Composition is the formatted catalog of one scrape, before any
// publication.
type Composition struct {
	Date    string
	Stamp   render.Stamp
	Items   int
	Orphans int
	Blocks  map[domain.Category][]domain.MessageBlock
}

// Parts returns the number of blocks across all categories.
func (c *Composition) Parts() int {
	var n int
	for _, b := range c.Blocks {
		n += len(b)
	}
	return n
}

// Compose scrapes and formats the catalog without touching the ledger or
// the transport. It returns ErrNoData when the scrape is empty.
func (e *Engine) Compose(ctx context.Context) (*Composition, error) {
	items, err := e.scraper.Scrape(ctx)
	if err != nil {
		return nil, fmt.Errorf("scraping: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoData
	}
	return e.ComposeItems(items)
}

// ComposeItems formats already scraped items.
func (e *Engine) ComposeItems(items []domain.RawItem) (*Composition, error) {
	local := e.now().In(e.location)
	stamp := render.NewStamp(local, e.calendar, e.stampTime)

	cat := catalog.Build(items, e.policy)
	metrics.OrphanLinesTotal.Add(float64(cat.Orphans))

	comp := &Composition{
		Date:    render.LedgerDate(local),
		Stamp:   stamp,
		Items:   len(items),
		Orphans: cat.Orphans,
		Blocks:  make(map[domain.Category][]domain.MessageBlock),
	}
	for _, c := range domain.Categories() {
		blocks, err := e.layout.Paginate(c, cat.Groups[c], stamp)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		if len(blocks) > 0 {
			comp.Blocks[c] = blocks
		}
	}
	return comp, nil
}

// RunReport summarises one publication run.
type RunReport struct {
	RunID     string
	Date      string
	Status    string
	Items     int
	Orphans   int
	Results   []Result
	Summary   *Result
	Changed   bool
	StartedAt time.Time
	Duration  time.Duration

	// DryRun is set when the actions were planned but not carried out.
	DryRun bool
}

// Err joins every category and summary failure, or returns nil.
func (r *RunReport) Err() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	if r.Summary != nil && r.Summary.Err != nil {
		errs = append(errs, r.Summary.Err)
	}
	return errors.Join(errs...)
}

// Run executes one publication run. It returns ErrRunInProgress without
// doing anything when another run holds the lock, and ErrNoData when the
// scrape is empty. Category failures do not fail the run; they are
// reported through RunReport.Err.
func (e *Engine) Run(ctx context.Context) (*RunReport, error) {
	unlock, err := e.locker.TryLock(ctx, runLockKey)
	if errors.Is(err, lock.ErrLocked) {
		metrics.RunsSkippedTotal.Inc()
		return nil, ErrRunInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			e.log.Warn("releasing run lock", "error", err)
		}
	}()

	report := &RunReport{
		RunID:     uuid.NewString(),
		Status:    domain.RunStatusRunning,
		DryRun:    e.dryRun,
		StartedAt: e.now(),
	}
	log := e.log.With("run_id", report.RunID)

	ctx, span := tracer.Start(ctx, "engine.Run")
	span.SetAttributes(attribute.String("run_id", report.RunID))
	defer span.End()

	run := &domain.Run{ID: report.RunID, StartedAt: report.StartedAt, Status: domain.RunStatusRunning}
	if err := e.store.InsertRun(ctx, run); err != nil {
		log.Warn("recording run start", "error", err)
	}

	runErr := e.publish(ctx, log, report)
	report.Duration = e.now().Sub(report.StartedAt)
	report.Status = runStatus(report, runErr)

	if runErr != nil && !errors.Is(runErr, ErrNoData) {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, "run failed")
	}
	e.finish(ctx, log, run, report, runErr)

	return report, runErr
}

func (e *Engine) publish(ctx context.Context, log *slog.Logger, report *RunReport) error {
	comp, err := e.Compose(ctx)
	if err != nil {
		return err
	}
	report.Date = comp.Date
	report.Items = comp.Items
	report.Orphans = comp.Orphans
	log.Info("catalog composed", "items", comp.Items, "orphans", comp.Orphans, "parts", comp.Parts())

	if !e.dryRun {
		e.prune(ctx, log, comp.Date)
	}

	report.Results = e.reconcileAll(ctx, comp)
	for _, res := range report.Results {
		if res.Err != nil {
			log.Error("category reconcile failed", "category", res.Category, "error", res.Err)
		}
		report.Changed = report.Changed || res.Changed
	}

	switch {
	case !report.Changed:
		log.Info("no category changed, summary left as is")
	case unread(report.Results) != nil:
		// Without the ledger of a category its button cannot be rebuilt;
		// the previous summary still links to it.
		log.Warn("summary left as is, category ledger unreadable",
			"categories", unread(report.Results))
	default:
		report.Summary = e.publishSummary(ctx, comp.Date, report.Results)
	}
	return nil
}

func unread(results []Result) []domain.Category {
	var cats []domain.Category
	for _, res := range results {
		if res.Unread {
			cats = append(cats, res.Category)
		}
	}
	return cats
}

func (e *Engine) reconcileAll(ctx context.Context, comp *Composition) []Result {
	cats := domain.Categories()
	results := make([]Result, len(cats))

	if e.workers <= 1 {
		for i, c := range cats {
			results[i] = e.reconciler.Reconcile(ctx, c, comp.Date, BlockParts(comp.Blocks[c]))
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, c := range cats {
		g.Go(func() error {
			results[i] = e.reconciler.Reconcile(ctx, c, comp.Date, BlockParts(comp.Blocks[c]))
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (e *Engine) publishSummary(ctx context.Context, date string, results []Result) *Result {
	links := make(map[domain.Category]string, len(results))
	for _, res := range results {
		if id := res.FirstMessageID(); id != "" {
			links[res.Category] = e.linker.Link(id)
		}
	}

	s := e.summary.BuildSummary(links)
	res := e.reconciler.Reconcile(ctx, domain.CategorySummary, date, []Part{{
		Index:   0,
		Key:     s.LedgerText(),
		Message: notify.Message{Text: s.Text, Buttons: s.Buttons},
	}})
	for action, n := range res.Actions {
		metrics.SummaryPublishedTotal.WithLabelValues(string(action)).Add(float64(n))
	}
	return &res
}

// prune drops ledger partitions older than the retention window. Failure
// only costs disk space, so it is logged and the run continues.
func (e *Engine) prune(ctx context.Context, log *slog.Logger, today string) {
	day, err := time.Parse(time.DateOnly, today)
	if err != nil {
		return
	}
	cutoff := day.AddDate(0, 0, -e.keepDays).Format(time.DateOnly)

	n, err := e.store.PruneBefore(ctx, cutoff)
	if err != nil {
		metrics.LedgerErrorsTotal.WithLabelValues("prune").Inc()
		log.Warn("pruning ledger", "before", cutoff, "error", err)
		return
	}
	if n > 0 {
		metrics.LedgerPrunedTotal.Add(float64(n))
		log.Info("ledger pruned", "before", cutoff, "entries", n)
	}
}

func (e *Engine) finish(ctx context.Context, log *slog.Logger, run *domain.Run, report *RunReport, runErr error) {
	completed := e.now()
	run.CompletedAt = &completed
	run.Status = report.Status
	run.Items = report.Items
	run.Changed = report.Changed
	if err := errors.Join(runErr, report.Err()); err != nil && !errors.Is(runErr, ErrNoData) {
		run.ErrorText = err.Error()
	}

	if err := e.store.CompleteRun(context.WithoutCancel(ctx), run); err != nil {
		log.Warn("recording run completion", "error", err)
	}

	metrics.RunsTotal.WithLabelValues(report.Status).Inc()
	metrics.RunDuration.Observe(report.Duration.Seconds())
	if report.Status == domain.RunStatusSucceeded {
		metrics.LastSuccessfulRun.SetToCurrentTime()
	}

	log.Info("run finished",
		"status", report.Status,
		"dry_run", report.DryRun,
		"items", report.Items,
		"changed", report.Changed,
		"duration", report.Duration,
	)
}

func runStatus(report *RunReport, runErr error) string {
	switch {
	case errors.Is(runErr, ErrNoData):
		return domain.RunStatusNoData
	case runErr != nil:
		return domain.RunStatusFailed
	case report.Err() == nil:
		return domain.RunStatusSucceeded
	}
	for _, res := range report.Results {
		if res.Err == nil {
			return domain.RunStatusPartial
		}
	}
	return domain.RunStatusFailed
}

// RecoverStaleRuns marks runs left 'running' by a crashed process.
func (e *Engine) RecoverStaleRuns(ctx context.Context, olderThan time.Duration) {
	n, err := e.store.RecoverStaleRuns(ctx, olderThan)
	if err != nil {
		e.log.Warn("recovering stale runs", "error", err)
		return
	}
	if n > 0 {
		e.log.Info("marked stale runs as crashed", "count", n)
	}
}
