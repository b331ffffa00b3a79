package engine

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/price-list-publisher/internal/lock"
	"github.com/donaldgifford/price-list-publisher/internal/metrics"
	"github.com/donaldgifford/price-list-publisher/internal/notify"
	"github.com/donaldgifford/price-list-publisher/internal/store"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// Action is what reconciliation does with one message slot.
type Action string

// Reconciliation actions.
const (
	ActionNoop   Action = "noop"
	ActionEdit   Action = "edit"
	ActionSend   Action = "send"
	ActionDelete Action = "delete"
)

// Part is one message slot to publish. Key is the text compared against
// and stored in the ledger; Message is what the transport publishes.
type Part struct {
	Index   int
	Key     string
	Message notify.Message
}

// BlockParts turns formatted blocks into parts keyed by their text.
func BlockParts(blocks []domain.MessageBlock) []Part {
	parts := make([]Part, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, Part{
			Index:   b.Index,
			Key:     b.Text,
			Message: notify.Message{Text: b.Text},
		})
	}
	return parts
}

// Step is one planned transition. Prev is nil for a send and Part is nil
// for a delete.
type Step struct {
	Action Action
	Index  int
	Prev   *domain.LedgerEntry
	Part   *Part
}

// Plan diffs the previously published entries against the new parts, slot
// by slot in part-index order. It performs no I/O.
func Plan(prev []domain.LedgerEntry, parts []Part) []Step {
	prevBy := make(map[int]domain.LedgerEntry, len(prev))
	partBy := make(map[int]Part, len(parts))
	var indices []int
	for _, e := range prev {
		prevBy[e.PartIndex] = e
		indices = append(indices, e.PartIndex)
	}
	for _, p := range parts {
		partBy[p.Index] = p
		indices = append(indices, p.Index)
	}
	slices.Sort(indices)
	indices = slices.Compact(indices)

	steps := make([]Step, 0, len(indices))
	for _, idx := range indices {
		e, hasPrev := prevBy[idx]
		p, hasPart := partBy[idx]

		step := Step{Index: idx}
		if hasPrev {
			step.Prev = &e
		}
		if hasPart {
			step.Part = &p
		}

		switch {
		case hasPrev && hasPart && e.Text == p.Key:
			step.Action = ActionNoop
		case hasPrev && hasPart:
			step.Action = ActionEdit
		case hasPart:
			step.Action = ActionSend
		default:
			step.Action = ActionDelete
		}
		steps = append(steps, step)
	}
	return steps
}

// Result is the outcome of reconciling one category.
type Result struct {
	Category domain.Category
	// Entries is the ledger state after the run, ordered by part index.
	Entries []domain.LedgerEntry
	// Changed is set when any message was sent, edited or deleted.
	Changed bool
	Actions map[Action]int
	// Err joins the transport and persistence failures of the category.
	Err error
	// Unread is set when the ledger could not be locked or read. Entries is
	// then empty whatever the channel shows.
	Unread bool
}

// FirstMessageID returns the message ID of the category's first part, or
// "" when nothing is published.
func (r Result) FirstMessageID() string {
	if len(r.Entries) == 0 {
		return ""
	}
	return r.Entries[0].MessageID
}

// Reconciler applies planned steps through the transport and records the
// outcome in the ledger.
type Reconciler struct {
	transport notify.Transport
	ledger    store.Ledger
	locker    lock.Locker
	log       *slog.Logger
	now       func() time.Time
	dryRun    bool
}

// NewReconciler creates a Reconciler. A nil locker or logger falls back to
// an in-process locker and slog.Default().
func NewReconciler(t notify.Transport, l store.Ledger, locker lock.Locker, log *slog.Logger) *Reconciler {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{
		transport: t,
		ledger:    l,
		locker:    locker,
		log:       log,
		now:       time.Now,
	}
}

// Reconcile brings one (category, date) partition in line with parts.
// Failures are contained in the returned Result; the ledger is only written
// when its content changes.
func (r *Reconciler) Reconcile(ctx context.Context, category domain.Category, date string, parts []Part) Result {
	ctx, span := tracer.Start(ctx, "engine.reconcile", trace.WithAttributes(
		attribute.String("category", string(category)),
		attribute.Int("parts", len(parts)),
	))
	defer span.End()

	res := Result{Category: category, Actions: make(map[Action]int)}
	defer func() {
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, "reconcile failed")
		}
		span.SetAttributes(attribute.Bool("changed", res.Changed))
	}()

	unlock, err := r.locker.Lock(ctx, "ledger:"+string(category))
	if err != nil {
		res.Err = &PersistenceError{Category: category, Op: "lock", Err: err}
		res.Unread = true
		return res
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			r.log.Warn("releasing ledger lock", "category", category, "error", err)
		}
	}()

	prev, err := r.ledger.ReadAll(ctx, category, date)
	if err != nil {
		metrics.LedgerErrorsTotal.WithLabelValues("read").Inc()
		res.Err = &PersistenceError{Category: category, Op: "read", Err: err}
		res.Unread = true
		return res
	}

	if r.dryRun {
		r.plan(category, prev, parts, &res)
		return res
	}

	var (
		errs    []error
		entries = make([]domain.LedgerEntry, 0, len(parts))
		now     = r.now().UTC()
	)
	for _, step := range Plan(prev, parts) {
		entry, action, err := r.apply(ctx, category, date, step, now)
		if err != nil {
			errs = append(errs, err)
		}
		if entry != nil {
			entries = append(entries, *entry)
		}
		if action == "" {
			continue
		}
		res.Actions[action]++
		metrics.ReconcileActionsTotal.WithLabelValues(string(category), string(action)).Inc()
		if action != ActionNoop {
			res.Changed = true
		}
	}
	slices.SortFunc(entries, func(a, b domain.LedgerEntry) int {
		return cmp.Compare(a.PartIndex, b.PartIndex)
	})
	res.Entries = entries
	metrics.CategoryParts.WithLabelValues(string(category)).Set(float64(len(entries)))

	if !sameEntries(prev, entries) {
		if err := r.ledger.ReplaceAll(ctx, category, date, entries); err != nil {
			metrics.LedgerErrorsTotal.WithLabelValues("write").Inc()
			errs = append(errs, &PersistenceError{Category: category, Op: "write", Err: err})
		}
	}

	res.Err = errors.Join(errs...)
	return res
}

// plan fills res with the steps a real run would take, without calling the
// transport or writing the ledger. Entries keeps the identities that would
// survive: noop and edit slots keep their message, sends have none yet.
func (r *Reconciler) plan(category domain.Category, prev []domain.LedgerEntry, parts []Part, res *Result) {
	for _, step := range Plan(prev, parts) {
		res.Actions[step.Action]++
		if step.Action != ActionNoop {
			res.Changed = true
		}
		if step.Action == ActionNoop || step.Action == ActionEdit {
			res.Entries = append(res.Entries, *step.Prev)
		}
		r.log.Info("planned", "category", category, "part", step.Index, "action", step.Action)
	}
}

// apply performs one step. It returns the ledger entry that should exist
// for the slot afterwards (nil for none) and the action actually carried
// out ("" when the transport call failed).
func (r *Reconciler) apply(
	ctx context.Context,
	category domain.Category,
	date string,
	step Step,
	now time.Time,
) (*domain.LedgerEntry, Action, error) {
	log := r.log.With("category", category, "part", step.Index)

	switch step.Action {
	case ActionNoop:
		return step.Prev, ActionNoop, nil

	case ActionEdit:
		outcome, err := r.transport.Edit(ctx, step.Prev.MessageID, step.Part.Message)
		if err == nil && outcome == notify.Edited {
			log.Info("message edited", "action", ActionEdit, "message_id", step.Prev.MessageID)
			return newEntry(category, date, step, step.Prev.MessageID, now), ActionEdit, nil
		}
		log.Warn("edit not possible, sending new message",
			"message_id", step.Prev.MessageID, "outcome", outcome, "error", err)

		id, err := r.transport.Send(ctx, step.Part.Message)
		if err != nil {
			// The old message still shows the old text; keep it so the next
			// run retries the edit.
			return step.Prev, "", &TransportError{Category: category, Part: step.Index, Op: "send", Err: err}
		}
		log.Info("message re-sent", "action", ActionSend, "message_id", id)
		return newEntry(category, date, step, id, now), ActionSend, nil

	case ActionSend:
		id, err := r.transport.Send(ctx, step.Part.Message)
		if err != nil {
			return nil, "", &TransportError{Category: category, Part: step.Index, Op: "send", Err: err}
		}
		log.Info("message sent", "action", ActionSend, "message_id", id)
		return newEntry(category, date, step, id, now), ActionSend, nil

	case ActionDelete:
		if err := r.transport.Delete(ctx, step.Prev.MessageID); err != nil {
			return step.Prev, "", &TransportError{Category: category, Part: step.Index, Op: "delete", Err: err}
		}
		log.Info("message deleted", "action", ActionDelete, "message_id", step.Prev.MessageID)
		return nil, ActionDelete, nil
	}
	return step.Prev, "", nil
}

func newEntry(category domain.Category, date string, step Step, id string, now time.Time) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		Category:  category,
		Date:      date,
		PartIndex: step.Index,
		MessageID: id,
		Text:      step.Part.Key,
		UpdatedAt: now,
	}
}

// sameEntries reports whether two ledger states publish the same messages.
// Both must be ordered by part index.
func sameEntries(a, b []domain.LedgerEntry) bool {
	return slices.EqualFunc(a, b, func(x, y domain.LedgerEntry) bool {
		return x.PartIndex == y.PartIndex && x.MessageID == y.MessageID && x.Text == y.Text
	})
}
