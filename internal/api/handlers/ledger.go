package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// LedgerProvider defines the store methods required by the ledger handler.
type LedgerProvider interface {
	ListEntries(ctx context.Context, date string) ([]domain.LedgerEntry, error)
}

// LedgerHandler serves the published-message ledger.
type LedgerHandler struct {
	store LedgerProvider
	today func() string
}

// NewLedgerHandler creates a new LedgerHandler. Requests without a date use
// the current day in loc.
func NewLedgerHandler(s LedgerProvider, loc *time.Location) *LedgerHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerHandler{
		store: s,
		today: func() string { return time.Now().In(loc).Format(time.DateOnly) },
	}
}

// ListLedgerInput is the query for the ledger endpoint.
type ListLedgerInput struct {
	Date string `query:"date" doc:"Publication day (YYYY-MM-DD), default today" example:"2024-08-03"`
}

// ListLedgerOutput is the response body for the ledger endpoint.
type ListLedgerOutput struct {
	Body []domain.LedgerEntry
}

// ListLedger returns every ledger entry of one day.
func (h *LedgerHandler) ListLedger(ctx context.Context, input *ListLedgerInput) (*ListLedgerOutput, error) {
	date := input.Date
	if date == "" {
		date = h.today()
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, huma.Error400BadRequest("invalid date, expected YYYY-MM-DD: " + date)
	}

	entries, err := h.store.ListEntries(ctx, date)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing ledger failed: " + err.Error())
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}

	return &ListLedgerOutput{Body: entries}, nil
}

// RegisterLedgerRoutes registers the ledger endpoint with the Huma API.
func RegisterLedgerRoutes(api huma.API, h *LedgerHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-ledger",
		Method:      http.MethodGet,
		Path:        "/api/v1/ledger",
		Summary:     "List ledger entries",
		Description: "Returns the published message parts of one day, ordered by category and part index.",
		Tags:        []string{"ledger"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.ListLedger)
}
