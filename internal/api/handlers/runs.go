package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/price-list-publisher/internal/store"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// RunsProvider defines the store methods required by the runs handler.
type RunsProvider interface {
	ListRuns(ctx context.Context, q *store.RunQuery) ([]domain.Run, error)
	GetRun(ctx context.Context, id string) (*domain.Run, error)
}

// RunsHandler serves publication run history.
type RunsHandler struct {
	store RunsProvider
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(s RunsProvider) *RunsHandler {
	return &RunsHandler{store: s}
}

// ListRunsInput holds the run history filters.
type ListRunsInput struct {
	Status  string `query:"status" enum:"running,succeeded,partial,failed,no_data,crashed" doc:"Filter by status"`
	Changed string `query:"changed" enum:"true,false" doc:"Filter runs that did or did not change the channel"`
	Since   string `query:"since" doc:"Only runs started at or after this RFC 3339 time"`
	Limit   int    `query:"limit" minimum:"0" maximum:"500" doc:"Page size, default 50"`
	Offset  int    `query:"offset" minimum:"0"`
}

// ListRunsOutput is the response body for listing runs.
type ListRunsOutput struct {
	Body []domain.Run
}

// ListRuns returns run history, newest first.
func (h *RunsHandler) ListRuns(ctx context.Context, input *ListRunsInput) (*ListRunsOutput, error) {
	q := &store.RunQuery{Limit: input.Limit, Offset: input.Offset}
	if input.Status != "" {
		q.Status = &input.Status
	}
	if input.Changed != "" {
		changed := input.Changed == "true"
		q.Changed = &changed
	}
	if input.Since != "" {
		since, err := time.Parse(time.RFC3339, input.Since)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid since, expected RFC 3339: " + input.Since)
		}
		q.Since = &since
	}

	runs, err := h.store.ListRuns(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing runs failed: " + err.Error())
	}
	if runs == nil {
		runs = []domain.Run{}
	}

	return &ListRunsOutput{Body: runs}, nil
}

// GetRunInput is the request path for a single run.
type GetRunInput struct {
	ID string `path:"id" doc:"Run ID"`
}

// GetRunOutput is the response body for a single run.
type GetRunOutput struct {
	Body *domain.Run
}

// GetRun returns one run.
func (h *RunsHandler) GetRun(ctx context.Context, input *GetRunInput) (*GetRunOutput, error) {
	run, err := h.store.GetRun(ctx, input.ID)
	if errors.Is(err, store.ErrRunNotFound) {
		return nil, huma.Error404NotFound("run not found: " + input.ID)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("fetching run failed: " + err.Error())
	}
	return &GetRunOutput{Body: run}, nil
}

// RegisterRunRoutes registers run history endpoints with the Huma API.
func RegisterRunRoutes(api huma.API, h *RunsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-runs",
		Method:      http.MethodGet,
		Path:        "/api/v1/runs",
		Summary:     "List publication runs",
		Description: "Returns publication run history (newest first).",
		Tags:        []string{"runs"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.ListRuns)

	huma.Register(api, huma.Operation{
		OperationID: "get-run",
		Method:      http.MethodGet,
		Path:        "/api/v1/runs/{id}",
		Summary:     "Get a publication run",
		Tags:        []string{"runs"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.GetRun)
}
