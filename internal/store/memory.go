package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

type partitionKey struct {
	category domain.Category
	date     string
}

// MemoryStore is a process-local Store used for dry runs and tests. Its
// contents are lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	ledger map[partitionKey][]domain.LedgerEntry
	runs   map[string]domain.Run
	now    func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ledger: make(map[partitionKey][]domain.LedgerEntry),
		runs:   make(map[string]domain.Run),
		now:    time.Now,
	}
}

// Close is a no-op.
func (*MemoryStore) Close() error { return nil }

// Ping always succeeds.
func (*MemoryStore) Ping(context.Context) error { return nil }

// Migrate is a no-op.
func (*MemoryStore) Migrate(context.Context) error { return nil }

// ReadAll returns a copy of one partition ordered by part index.
func (s *MemoryStore) ReadAll(_ context.Context, category domain.Category, date string) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.ledger[partitionKey{category, date}]), nil
}

// ReplaceAll swaps one partition for entries.
func (s *MemoryStore) ReplaceAll(
	_ context.Context,
	category domain.Category,
	date string,
	entries []domain.LedgerEntry,
) error {
	now := s.now().UTC()
	stored := make([]domain.LedgerEntry, 0, len(entries))
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if e.PartIndex < 0 {
			return fmt.Errorf("replacing ledger %s/%s: negative part index %d", category, date, e.PartIndex)
		}
		if seen[e.PartIndex] {
			return fmt.Errorf("replacing ledger %s/%s: duplicate part index %d", category, date, e.PartIndex)
		}
		seen[e.PartIndex] = true

		e.Category = category
		e.Date = date
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = now
		}
		stored = append(stored, e)
	}
	slices.SortFunc(stored, func(a, b domain.LedgerEntry) int {
		return cmp.Compare(a.PartIndex, b.PartIndex)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	key := partitionKey{category, date}
	if len(stored) == 0 {
		delete(s.ledger, key)
		return nil
	}
	s.ledger[key] = stored
	return nil
}

// ListEntries returns every entry for date, ordered by category and part.
func (s *MemoryStore) ListEntries(_ context.Context, date string) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.LedgerEntry
	for key, entries := range s.ledger {
		if key.date == date {
			out = append(out, entries...)
		}
	}
	slices.SortFunc(out, func(a, b domain.LedgerEntry) int {
		return cmp.Or(
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(a.PartIndex, b.PartIndex),
		)
	})
	return out, nil
}

// PruneBefore drops entries dated before date.
func (s *MemoryStore) PruneBefore(_ context.Context, date string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for key, entries := range s.ledger {
		if key.date < date {
			n += len(entries)
			delete(s.ledger, key)
		}
	}
	return n, nil
}

// InsertRun records the start of a run.
func (s *MemoryStore) InsertRun(_ context.Context, run *domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; ok {
		return fmt.Errorf("inserting run: duplicate id %s", run.ID)
	}
	s.runs[run.ID] = domain.Run{
		ID:        run.ID,
		StartedAt: run.StartedAt,
		Status:    run.Status,
	}
	return nil
}

// CompleteRun stores the final state of a run.
func (s *MemoryStore) CompleteRun(_ context.Context, run *domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.runs[run.ID]
	if !ok {
		return fmt.Errorf("completing run %s: %w", run.ID, ErrRunNotFound)
	}
	existing.CompletedAt = run.CompletedAt
	existing.Status = run.Status
	existing.ErrorText = run.ErrorText
	existing.Items = run.Items
	existing.Changed = run.Changed
	s.runs[run.ID] = existing
	return nil
}

// ListRuns returns runs matching q, newest first.
func (s *MemoryStore) ListRuns(_ context.Context, q *RunQuery) ([]domain.Run, error) {
	s.mu.RLock()
	var runs []domain.Run
	for _, r := range s.runs {
		if q.matches(r) {
			runs = append(runs, r)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(runs, func(a, b domain.Run) int {
		return b.StartedAt.Compare(a.StartedAt)
	})

	limit, offset := q.Limits()
	if offset >= len(runs) {
		return nil, nil
	}
	runs = runs[offset:]
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// GetRun returns a single run by ID.
func (s *MemoryStore) GetRun(_ context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	return &r, nil
}

// RecoverStaleRuns marks old 'running' runs as crashed and forgets runs
// older than 30 days.
func (s *MemoryStore) RecoverStaleRuns(_ context.Context, olderThan time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-olderThan)
	expiry := now.AddDate(0, 0, -30)

	var n int
	for id, r := range s.runs {
		if r.StartedAt.Before(expiry) {
			delete(s.runs, id)
			continue
		}
		if r.Status == domain.RunStatusRunning && r.StartedAt.Before(cutoff) {
			r.Status = domain.RunStatusCrashed
			completed := now
			r.CompletedAt = &completed
			s.runs[id] = r
			n++
		}
	}
	return n, nil
}

func (q *RunQuery) matches(r domain.Run) bool {
	if q == nil {
		return true
	}
	if q.Status != nil && r.Status != *q.Status {
		return false
	}
	if q.Changed != nil && r.Changed != *q.Changed {
		return false
	}
	if q.Since != nil && r.StartedAt.Before(*q.Since) {
		return false
	}
	return true
}
