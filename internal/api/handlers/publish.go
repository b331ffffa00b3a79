package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/price-list-publisher/internal/engine"
)

// Publisher runs one publication.
type Publisher interface {
	Run(ctx context.Context) (*engine.RunReport, error)
}

// PublishHandler handles manual publication requests.
type PublishHandler struct {
	publisher  Publisher
	runTimeout time.Duration
}

// NewPublishHandler creates a new PublishHandler. A positive runTimeout
// bounds each run.
func NewPublishHandler(p Publisher, runTimeout time.Duration) *PublishHandler {
	return &PublishHandler{publisher: p, runTimeout: runTimeout}
}

// CategoryResult is the outcome of one category in a run.
type CategoryResult struct {
	Category string         `json:"category" example:"samsung"`
	Parts    int            `json:"parts" doc:"Messages published for the category after the run"`
	Changed  bool           `json:"changed"`
	Actions  map[string]int `json:"actions,omitempty" doc:"Count of noop, edit, send and delete steps"`
	Error    string         `json:"error,omitempty"`
}

// RunSummary is the response body of a publication run.
type RunSummary struct {
	RunID      string           `json:"run_id"`
	Date       string           `json:"date,omitempty" example:"2024-08-03"`
	Status     string           `json:"status" example:"succeeded"`
	Items      int              `json:"items" doc:"Scraped items"`
	Orphans    int              `json:"orphans" doc:"Variant lines dropped for lack of a header"`
	Changed    bool             `json:"changed"`
	DryRun     bool             `json:"dry_run,omitempty" doc:"Actions were planned, not carried out"`
	DurationMS int64            `json:"duration_ms"`
	Categories []CategoryResult `json:"categories"`
	Summary    *CategoryResult  `json:"summary,omitempty"`
}

// PublishOutput is the response for the publish endpoint.
type PublishOutput struct {
	Body RunSummary
}

// Publish runs the publication pipeline once. The run outlives the request:
// a client that disconnects does not stop it halfway through the channel.
func (h *PublishHandler) Publish(ctx context.Context, _ *struct{}) (*PublishOutput, error) {
	ctx = context.WithoutCancel(ctx)
	if h.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.runTimeout)
		defer cancel()
	}

	report, err := h.publisher.Run(ctx)
	switch {
	case errors.Is(err, engine.ErrRunInProgress):
		return nil, huma.Error409Conflict("a publication run is already in progress")
	case err != nil && !errors.Is(err, engine.ErrNoData):
		return nil, huma.Error500InternalServerError("publication failed: " + err.Error())
	}

	return &PublishOutput{Body: NewRunSummary(report)}, nil
}

// NewRunSummary converts a run report into its API form.
func NewRunSummary(r *engine.RunReport) RunSummary {
	s := RunSummary{
		RunID:      r.RunID,
		Date:       r.Date,
		Status:     r.Status,
		Items:      r.Items,
		Orphans:    r.Orphans,
		Changed:    r.Changed,
		DryRun:     r.DryRun,
		DurationMS: r.Duration.Milliseconds(),
		Categories: make([]CategoryResult, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		s.Categories = append(s.Categories, categoryResult(res))
	}
	if r.Summary != nil {
		cr := categoryResult(*r.Summary)
		s.Summary = &cr
	}
	return s
}

func categoryResult(res engine.Result) CategoryResult {
	cr := CategoryResult{
		Category: res.Category.String(),
		Parts:    len(res.Entries),
		Changed:  res.Changed,
	}
	if len(res.Actions) > 0 {
		cr.Actions = make(map[string]int, len(res.Actions))
		for a, n := range res.Actions {
			cr.Actions[string(a)] = n
		}
	}
	if res.Err != nil {
		cr.Error = res.Err.Error()
	}
	return cr
}

// RegisterPublishRoutes registers the publish endpoint with the Huma API.
func RegisterPublishRoutes(api huma.API, h *PublishHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "publish",
		Method:      http.MethodPost,
		Path:        "/api/v1/publish",
		Summary:     "Run a publication",
		Description: "Scrapes the price list, reconciles every category against today's " +
			"ledger and updates the navigation summary when anything changed.",
		Tags:   []string{"publish"},
		Errors: []int{http.StatusConflict, http.StatusInternalServerError},
	}, h.Publish)
}
