// Package report renders run summaries, ledger entries and run history as
// aligned text tables or JSON for the command-line tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/donaldgifford/price-list-publisher/internal/api/handlers"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RunSummary writes the outcome of one publication run.
func RunSummary(w io.Writer, s *handlers.RunSummary) error {
	tw := newTabWriter(w)
	tw.writef("Run:\t%s\n", s.RunID)
	tw.writef("Date:\t%s\n", s.Date)
	tw.writef("Status:\t%s\n", s.Status)
	tw.writef("Items:\t%d (%d orphan lines)\n", s.Items, s.Orphans)
	tw.writef("Changed:\t%v\n", s.Changed)
	if s.DryRun {
		tw.writef("Dry run:\tactions planned, nothing published\n")
	}
	tw.writef("Duration:\t%s\n", time.Duration(s.DurationMS)*time.Millisecond)

	rows := s.Categories
	if s.Summary != nil {
		rows = append(rows, *s.Summary)
	}
	if len(rows) > 0 {
		tw.writef("\nCATEGORY\tPARTS\tACTIONS\tERROR\n")
	}
	for _, c := range rows {
		tw.writef("%s\t%d\t%s\t%s\n", c.Category, c.Parts, Actions(c.Actions), c.Error)
	}
	return tw.finish()
}

// Actions renders reconcile step counts in a fixed order, omitting zeros.
func Actions(actions map[string]int) string {
	var parts []string
	for _, a := range []string{"send", "edit", "delete", "noop"} {
		if n := actions[a]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", a, n))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// Ledger writes one row per published message part.
func Ledger(w io.Writer, entries []domain.LedgerEntry) error {
	tw := newTabWriter(w)
	tw.writef("CATEGORY\tPART\tMESSAGE\tUPDATED\tCHARS\n")
	for i := range entries {
		tw.writef("%s\t%d\t%s\t%s\t%d\n",
			entries[i].Category,
			entries[i].PartIndex,
			entries[i].MessageID,
			entries[i].UpdatedAt.Format(time.RFC3339),
			utf8.RuneCountInString(entries[i].Text),
		)
	}
	return tw.finish()
}

// Runs writes run history, one row per run.
func Runs(w io.Writer, runs []domain.Run) error {
	tw := newTabWriter(w)
	tw.writef("ID\tSTARTED\tSTATUS\tITEMS\tCHANGED\tDURATION\tERROR\n")
	for i := range runs {
		tw.writef("%s\t%s\t%s\t%d\t%v\t%s\t%s\n",
			runs[i].ID,
			runs[i].StartedAt.Format(time.RFC3339),
			runs[i].Status,
			runs[i].Items,
			runs[i].Changed,
			runDuration(&runs[i]),
			firstLine(runs[i].ErrorText),
		)
	}
	return tw.finish()
}

// Run writes the detail view of a single run.
func Run(w io.Writer, r *domain.Run) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", r.ID)
	tw.writef("Started:\t%s\n", r.StartedAt.Format(time.RFC3339))
	if r.CompletedAt != nil {
		tw.writef("Completed:\t%s\n", r.CompletedAt.Format(time.RFC3339))
	}
	tw.writef("Status:\t%s\n", r.Status)
	tw.writef("Items:\t%d\n", r.Items)
	tw.writef("Changed:\t%v\n", r.Changed)
	if r.ErrorText != "" {
		tw.writef("Error:\t%s\n", r.ErrorText)
	}
	return tw.finish()
}

func runDuration(r *domain.Run) string {
	if r.CompletedAt == nil {
		return "-"
	}
	return r.CompletedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
