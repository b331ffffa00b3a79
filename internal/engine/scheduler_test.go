package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/price-list-publisher/internal/metrics"
)

type fakeRunner struct {
	mu       sync.Mutex
	calls    int
	deadline bool
	report   *RunReport
	err      error
}

func (f *fakeRunner) Run(ctx context.Context) (*RunReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	_, f.deadline = ctx.Deadline()
	return f.report, f.err
}

func TestNewScheduler(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(&fakeRunner{}, "*/15 * * * *", nil, 0, quietLogger())
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 1)
	assert.True(t, s.Next().IsZero(), "next run is unknown before start")
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	t.Parallel()

	_, err := NewScheduler(&fakeRunner{}, "every tuesday", time.UTC, 0, quietLogger())
	require.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(&fakeRunner{}, "@every 1h", time.UTC, 0, quietLogger())
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return !s.Next().IsZero() }, time.Second, 10*time.Millisecond)

	next := s.Next()
	assert.WithinDuration(t, time.Now().Add(time.Hour), next, time.Minute)

	s.SyncNextRunTimestamp()
	assert.InDelta(t, float64(next.Unix()), testutil.ToFloat64(metrics.SchedulerNextRunTimestamp), 1)

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_RunOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
		report  *RunReport
		err     error
	}{
		{name: "success", report: &RunReport{Status: "succeeded"}},
		{name: "with timeout", timeout: time.Minute, report: &RunReport{}},
		{name: "in progress", err: ErrRunInProgress},
		{name: "no data", err: ErrNoData},
		{name: "failed", err: errors.New("boom")},
		{
			name:   "partial",
			report: &RunReport{Status: "partial", Results: []Result{{Err: errors.New("edit failed")}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &fakeRunner{report: tt.report, err: tt.err}
			s, err := NewScheduler(r, "@daily", time.UTC, tt.timeout, quietLogger())
			require.NoError(t, err)

			s.runOnce(context.Background())

			assert.Equal(t, 1, r.calls)
			assert.Equal(t, tt.timeout > 0, r.deadline)
		})
	}
}
