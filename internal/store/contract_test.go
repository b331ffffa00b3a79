package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/price-list-publisher/internal/store"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// testStoreContract runs the behaviour every Store implementation shares.
// newStore must return an empty, migrated store.
func testStoreContract(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	const day = "2024-08-03"

	entries := func(texts ...string) []domain.LedgerEntry {
		out := make([]domain.LedgerEntry, len(texts))
		for i, txt := range texts {
			out[i] = domain.LedgerEntry{PartIndex: i, MessageID: "m" + txt, Text: txt}
		}
		return out
	}

	t.Run("empty partition", func(t *testing.T) {
		s := newStore(t)
		got, err := s.ReadAll(context.Background(), domain.CategoryApple, day)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("replace then read ordered by part", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		in := []domain.LedgerEntry{
			{PartIndex: 2, MessageID: "30", Text: "c"},
			{PartIndex: 0, MessageID: "10", Text: "a"},
			{PartIndex: 1, MessageID: "20", Text: "b"},
		}
		require.NoError(t, s.ReplaceAll(ctx, domain.CategorySamsung, day, in))

		got, err := s.ReadAll(ctx, domain.CategorySamsung, day)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, e := range got {
			assert.Equal(t, i, e.PartIndex)
			assert.Equal(t, domain.CategorySamsung, e.Category)
			assert.Equal(t, day, e.Date)
			assert.WithinDuration(t, time.Now(), e.UpdatedAt, time.Minute)
		}
		assert.Equal(t, "10", got[0].MessageID)
		assert.Equal(t, "b", got[1].Text)
		assert.Equal(t, "30", got[2].MessageID)
	})

	t.Run("replace shrinks partition", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.ReplaceAll(ctx, domain.CategoryXiaomi, day, entries("a", "b", "c")))
		require.NoError(t, s.ReplaceAll(ctx, domain.CategoryXiaomi, day, entries("x", "y")))

		got, err := s.ReadAll(ctx, domain.CategoryXiaomi, day)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "x", got[0].Text)
		assert.Equal(t, "y", got[1].Text)
	})

	t.Run("replace with nothing clears", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.ReplaceAll(ctx, domain.CategoryLaptop, day, entries("a")))
		require.NoError(t, s.ReplaceAll(ctx, domain.CategoryLaptop, day, nil))

		got, err := s.ReadAll(ctx, domain.CategoryLaptop, day)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("duplicate part index leaves partition untouched", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.ReplaceAll(ctx, domain.CategoryTablet, day, entries("keep")))

		bad := []domain.LedgerEntry{
			{PartIndex: 0, MessageID: "1", Text: "a"},
			{PartIndex: 0, MessageID: "2", Text: "b"},
		}
		require.Error(t, s.ReplaceAll(ctx, domain.CategoryTablet, day, bad))

		got, err := s.ReadAll(ctx, domain.CategoryTablet, day)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "keep", got[0].Text)
	})

	t.Run("partitions are isolated", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.ReplaceAll(ctx, domain.CategoryApple, day, entries("apple")))
		require.NoError(t, s.ReplaceAll(ctx, domain.CategorySamsung, day, entries("samsung")))
		require.NoError(t, s.ReplaceAll(ctx, domain.CategoryApple, "2024-08-04", entries("tomorrow")))

		got, err := s.ReadAll(ctx, domain.CategoryApple, day)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "apple", got[0].Text)

		all, err := s.ListEntries(ctx, day)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, domain.CategoryApple, all[0].Category)
		assert.Equal(t, domain.CategorySamsung, all[1].Category)
	})

	t.Run("prune before", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.ReplaceAll(ctx, domain.CategoryApple, "2024-08-01", entries("a", "b")))
		require.NoError(t, s.ReplaceAll(ctx, domain.CategorySummary, "2024-08-02", entries("s")))
		require.NoError(t, s.ReplaceAll(ctx, domain.CategoryApple, day, entries("today")))

		n, err := s.PruneBefore(ctx, day)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		old, err := s.ListEntries(ctx, "2024-08-01")
		require.NoError(t, err)
		assert.Empty(t, old)

		kept, err := s.ReadAll(ctx, domain.CategoryApple, day)
		require.NoError(t, err)
		assert.Len(t, kept, 1)
	})

	t.Run("run lifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		started := time.Now().UTC().Truncate(time.Millisecond)
		run := &domain.Run{ID: uuid.NewString(), StartedAt: started, Status: domain.RunStatusRunning}
		require.NoError(t, s.InsertRun(ctx, run))

		got, err := s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RunStatusRunning, got.Status)
		assert.Nil(t, got.CompletedAt)
		assert.WithinDuration(t, started, got.StartedAt, time.Millisecond)

		completed := started.Add(3 * time.Second)
		run.CompletedAt = &completed
		run.Status = domain.RunStatusPartial
		run.ErrorText = "transport: apple part 1"
		run.Items = 120
		run.Changed = true
		require.NoError(t, s.CompleteRun(ctx, run))

		got, err = s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RunStatusPartial, got.Status)
		assert.Equal(t, "transport: apple part 1", got.ErrorText)
		assert.Equal(t, 120, got.Items)
		assert.True(t, got.Changed)
		require.NotNil(t, got.CompletedAt)
		assert.WithinDuration(t, completed, *got.CompletedAt, time.Millisecond)
	})

	t.Run("unknown run", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.GetRun(ctx, uuid.NewString())
		require.ErrorIs(t, err, store.ErrRunNotFound)

		err = s.CompleteRun(ctx, &domain.Run{ID: uuid.NewString(), Status: domain.RunStatusFailed})
		require.ErrorIs(t, err, store.ErrRunNotFound)
	})

	t.Run("list runs filters and orders", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
		statuses := []string{
			domain.RunStatusSucceeded,
			domain.RunStatusFailed,
			domain.RunStatusSucceeded,
			domain.RunStatusNoData,
		}
		ids := make([]string, len(statuses))
		for i, st := range statuses {
			r := &domain.Run{ID: uuid.NewString(), StartedAt: base.Add(time.Duration(i) * time.Minute), Status: domain.RunStatusRunning}
			require.NoError(t, s.InsertRun(ctx, r))
			done := r.StartedAt.Add(time.Second)
			r.CompletedAt = &done
			r.Status = st
			r.Changed = i%2 == 0
			require.NoError(t, s.CompleteRun(ctx, r))
			ids[i] = r.ID
		}

		all, err := s.ListRuns(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, ids[3], all[0].ID)
		assert.Equal(t, ids[0], all[3].ID)

		succeeded, err := s.ListRuns(ctx, &store.RunQuery{Status: ptr(domain.RunStatusSucceeded)})
		require.NoError(t, err)
		require.Len(t, succeeded, 2)
		assert.Equal(t, ids[2], succeeded[0].ID)

		unchanged, err := s.ListRuns(ctx, &store.RunQuery{Changed: ptr(false)})
		require.NoError(t, err)
		assert.Len(t, unchanged, 2)

		since := base.Add(90 * time.Second)
		recent, err := s.ListRuns(ctx, &store.RunQuery{Since: &since})
		require.NoError(t, err)
		assert.Len(t, recent, 2)

		page, err := s.ListRuns(ctx, &store.RunQuery{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, ids[2], page[0].ID)
	})

	t.Run("recover stale runs", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		stale := &domain.Run{ID: uuid.NewString(), StartedAt: time.Now().Add(-2 * time.Hour), Status: domain.RunStatusRunning}
		fresh := &domain.Run{ID: uuid.NewString(), StartedAt: time.Now(), Status: domain.RunStatusRunning}
		require.NoError(t, s.InsertRun(ctx, stale))
		require.NoError(t, s.InsertRun(ctx, fresh))

		n, err := s.RecoverStaleRuns(ctx, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		got, err := s.GetRun(ctx, stale.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RunStatusCrashed, got.Status)
		assert.NotNil(t, got.CompletedAt)

		got, err = s.GetRun(ctx, fresh.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RunStatusRunning, got.Status)
	})
}

func ptr[T any](v T) *T { return &v }
