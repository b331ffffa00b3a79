package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/price-list-publisher/internal/api/handlers"
	"github.com/donaldgifford/price-list-publisher/internal/engine"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// stubPublisher implements Publisher for testing.
type stubPublisher struct {
	report *engine.RunReport
	err    error
	called bool

	// State of the run context when Run was called.
	ctxErr      error
	deadline    time.Time
	hasDeadline bool
}

func (s *stubPublisher) Run(ctx context.Context) (*engine.RunReport, error) {
	s.called = true
	s.ctxErr = ctx.Err()
	s.deadline, s.hasDeadline = ctx.Deadline()
	return s.report, s.err
}

func TestPublish_Success(t *testing.T) {
	t.Parallel()

	report := &engine.RunReport{
		RunID:    "run-1",
		Date:     "2024-08-03",
		Status:   domain.RunStatusPartial,
		Items:    42,
		Changed:  true,
		Duration: 1500 * time.Millisecond,
		Results: []engine.Result{
			{
				Category: domain.CategorySamsung,
				Entries:  []domain.LedgerEntry{{PartIndex: 0, MessageID: "10"}},
				Changed:  true,
				Actions:  map[engine.Action]int{engine.ActionEdit: 1},
			},
			{Category: domain.CategoryApple, Err: errors.New("flood wait")},
		},
		Summary: &engine.Result{
			Category: domain.CategorySummary,
			Actions:  map[engine.Action]int{engine.ActionEdit: 1},
		},
	}
	p := &stubPublisher{report: report}

	_, api := humatest.New(t)
	handlers.RegisterPublishRoutes(api, handlers.NewPublishHandler(p, 0))

	resp := api.Post("/api/v1/publish")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, p.called)

	body := resp.Body.String()
	assert.Contains(t, body, `"run_id":"run-1"`)
	assert.Contains(t, body, `"status":"partial"`)
	assert.Contains(t, body, `"duration_ms":1500`)
	assert.Contains(t, body, `"error":"flood wait"`)
	assert.Contains(t, body, `"edit":1`)
}

func TestPublish_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		report     *engine.RunReport
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "run in progress",
			err:        engine.ErrRunInProgress,
			wantStatus: http.StatusConflict,
			wantBody:   "already in progress",
		},
		{
			name:       "no data is not an error",
			report:     &engine.RunReport{RunID: "run-2", Status: domain.RunStatusNoData},
			err:        engine.ErrNoData,
			wantStatus: http.StatusOK,
			wantBody:   `"status":"no_data"`,
		},
		{
			name:       "fatal",
			report:     &engine.RunReport{Status: domain.RunStatusFailed},
			err:        errors.New("scraping: chrome crashed"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "chrome crashed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterPublishRoutes(api, handlers.NewPublishHandler(&stubPublisher{report: tt.report, err: tt.err}, 0))

			resp := api.Post("/api/v1/publish")
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestNewRunSummary(t *testing.T) {
	t.Parallel()

	s := handlers.NewRunSummary(&engine.RunReport{
		Results: []engine.Result{{Category: domain.CategoryXiaomi}},
	})
	require.Len(t, s.Categories, 1)
	assert.Equal(t, "xiaomi", s.Categories[0].Category)
	assert.Nil(t, s.Categories[0].Actions)
	assert.Nil(t, s.Summary)
}

func TestPublish_RunOutlivesRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		timeout      time.Duration
		wantDeadline bool
	}{
		{name: "no timeout"},
		{name: "run timeout", timeout: time.Minute, wantDeadline: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &stubPublisher{report: &engine.RunReport{RunID: "run-1", Status: domain.RunStatusSucceeded}}
			h := handlers.NewPublishHandler(p, tt.timeout)

			reqCtx, cancel := context.WithCancel(context.Background())
			cancel()

			out, err := h.Publish(reqCtx, nil)
			require.NoError(t, err)
			assert.Equal(t, "run-1", out.Body.RunID)

			require.True(t, p.called)
			require.NoError(t, p.ctxErr, "a cancelled request must not cancel the run")
			assert.Equal(t, tt.wantDeadline, p.hasDeadline)
			if p.hasDeadline {
				assert.WithinDuration(t, time.Now().Add(tt.timeout), p.deadline, 5*time.Second)
			}
		})
	}
}
