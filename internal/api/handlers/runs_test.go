package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/price-list-publisher/internal/api/handlers"
	"github.com/donaldgifford/price-list-publisher/internal/store"
	"github.com/donaldgifford/price-list-publisher/internal/store/mocks"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

func sampleRun(id, status string) domain.Run {
	return domain.Run{
		ID:        id,
		StartedAt: time.Date(2024, 8, 3, 9, 30, 0, 0, time.UTC),
		Status:    status,
		Items:     120,
	}
}

func TestListRuns_Filters(t *testing.T) {
	t.Parallel()

	m := mocks.NewMockStore(t)
	m.EXPECT().ListRuns(mock.Anything, mock.MatchedBy(func(q *store.RunQuery) bool {
		return q.Status != nil && *q.Status == domain.RunStatusFailed &&
			q.Changed != nil && *q.Changed &&
			q.Since != nil && q.Since.Equal(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)) &&
			q.Limit == 5 && q.Offset == 10
	})).Return([]domain.Run{sampleRun("run-1", domain.RunStatusFailed)}, nil)

	_, api := humatest.New(t)
	handlers.RegisterRunRoutes(api, handlers.NewRunsHandler(m))

	resp := api.Get("/api/v1/runs?status=failed&changed=true&since=2024-08-01T00:00:00Z&limit=5&offset=10")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"id":"run-1"`)
}

func TestListRuns_Empty(t *testing.T) {
	t.Parallel()

	m := mocks.NewMockStore(t)
	m.EXPECT().ListRuns(mock.Anything, mock.Anything).Return(nil, nil)

	_, api := humatest.New(t)
	handlers.RegisterRunRoutes(api, handlers.NewRunsHandler(m))

	resp := api.Get("/api/v1/runs")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "[]")
}

func TestListRuns_BadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "bad since", path: "/api/v1/runs?since=yesterday", wantStatus: http.StatusBadRequest},
		{name: "unknown status", path: "/api/v1/runs?status=exploded", wantStatus: http.StatusUnprocessableEntity},
		{name: "limit too large", path: "/api/v1/runs?limit=1000", wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterRunRoutes(api, handlers.NewRunsHandler(mocks.NewMockStore(t)))

			resp := api.Get(tt.path)
			assert.Equal(t, tt.wantStatus, resp.Code)
		})
	}
}

func TestListRuns_Error(t *testing.T) {
	t.Parallel()

	m := mocks.NewMockStore(t)
	m.EXPECT().ListRuns(mock.Anything, mock.Anything).Return(nil, errors.New("db error"))

	_, api := humatest.New(t)
	handlers.RegisterRunRoutes(api, handlers.NewRunsHandler(m))

	resp := api.Get("/api/v1/runs")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "listing runs failed")
}

func TestGetRun(t *testing.T) {
	t.Parallel()

	run := sampleRun("run-1", domain.RunStatusSucceeded)

	tests := []struct {
		name       string
		id         string
		ret        *domain.Run
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "found", id: "run-1", ret: &run, wantStatus: http.StatusOK, wantBody: `"status":"succeeded"`},
		{
			name:       "not found",
			id:         "missing",
			err:        fmt.Errorf("run missing: %w", store.ErrRunNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   "run not found",
		},
		{
			name:       "store error",
			id:         "run-1",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "fetching run failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := mocks.NewMockStore(t)
			m.EXPECT().GetRun(mock.Anything, tt.id).Return(tt.ret, tt.err)

			_, api := humatest.New(t)
			handlers.RegisterRunRoutes(api, handlers.NewRunsHandler(m))

			resp := api.Get("/api/v1/runs/" + tt.id)
			require.Equal(t, tt.wantStatus, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}
