package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/price-list-publisher/internal/metrics"
)

// Runner executes one publication run.
type Runner interface {
	Run(ctx context.Context) (*RunReport, error)
}

// Scheduler triggers publication runs on a cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	runner     Runner
	runTimeout time.Duration
	log        *slog.Logger

	runEntryID cron.EntryID
}

// NewScheduler creates a Scheduler running r on spec, a standard five-field
// cron expression or a descriptor such as "@every 30m", evaluated in loc.
// A positive runTimeout bounds each run.
func NewScheduler(
	r Runner,
	spec string,
	loc *time.Location,
	runTimeout time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	s := &Scheduler{
		cron:       c,
		runner:     r,
		runTimeout: runTimeout,
		log:        log,
	}

	id, err := c.AddFunc(spec, func() { s.runOnce(context.Background()) })
	if err != nil {
		return nil, err
	}
	s.runEntryID = id

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
	s.SyncNextRunTimestamp()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// Next returns the time of the next scheduled run, or the zero time when
// the scheduler is not started.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.runEntryID).Next
}

// SyncNextRunTimestamp publishes the next run time as a gauge.
func (s *Scheduler) SyncNextRunTimestamp() {
	if next := s.Next(); !next.IsZero() {
		metrics.SchedulerNextRunTimestamp.Set(float64(next.Unix()))
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	defer s.SyncNextRunTimestamp()

	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	s.log.Info("scheduled run starting")
	report, err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, ErrRunInProgress):
		s.log.Info("scheduled run skipped, previous run still active")
	case errors.Is(err, ErrNoData):
		s.log.Warn("scheduled run found no data")
	case err != nil:
		s.log.Error("scheduled run failed", "error", err)
	case report.Err() != nil:
		s.log.Warn("scheduled run finished with errors", "status", report.Status, "error", report.Err())
	}
}
