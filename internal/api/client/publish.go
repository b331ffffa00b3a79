package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/donaldgifford/price-list-publisher/internal/api/handlers"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// Publish triggers a publication run and waits for its summary.
func (c *Client) Publish(ctx context.Context) (*handlers.RunSummary, error) {
	var s handlers.RunSummary
	if err := c.post(ctx, "/api/v1/publish", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Ledger returns the ledger entries for date. An empty date means the
// server's current publication day.
func (c *Client) Ledger(ctx context.Context, date string) ([]domain.LedgerEntry, error) {
	path := "/api/v1/ledger"
	if date != "" {
		path += "?" + url.Values{"date": {date}}.Encode()
	}
	var entries []domain.LedgerEntry
	if err := c.get(ctx, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// RunFilter narrows ListRuns. Zero fields are not sent.
type RunFilter struct {
	Status  string
	Changed *bool
	Since   time.Time
	Limit   int
	Offset  int
}

func (f RunFilter) query() string {
	v := url.Values{}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Changed != nil {
		v.Set("changed", strconv.FormatBool(*f.Changed))
	}
	if !f.Since.IsZero() {
		v.Set("since", f.Since.UTC().Format(time.RFC3339))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		v.Set("offset", strconv.Itoa(f.Offset))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// ListRuns returns recent publication runs, newest first.
func (c *Client) ListRuns(ctx context.Context, f RunFilter) ([]domain.Run, error) {
	var runs []domain.Run
	if err := c.get(ctx, "/api/v1/runs"+f.query(), &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun returns a single run by ID.
func (c *Client) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	var run domain.Run
	if err := c.get(ctx, "/api/v1/runs/"+url.PathEscape(id), &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// Ready reports the server's readiness check status.
func (c *Client) Ready(ctx context.Context) (*handlers.StatusResponse, error) {
	var s handlers.StatusResponse
	if err := c.get(ctx, "/readyz", &s); err != nil {
		return nil, err
	}
	return &s, nil
}
