// Package store defines the persistence abstraction for price-list-publisher.
// The publication engine depends on the Ledger and Store interfaces, never on
// concrete implementations, so it can be tested against the in-memory store
// or mocks without a running database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// Ledger is the durable record of published message parts, partitioned by
// (category, date).
type Ledger interface {
	// ReadAll returns the entries of one partition ordered by part index.
	ReadAll(ctx context.Context, category domain.Category, date string) ([]domain.LedgerEntry, error)
	// ReplaceAll atomically replaces every entry of one partition.
	ReplaceAll(ctx context.Context, category domain.Category, date string, entries []domain.LedgerEntry) error
}

// Store defines all data access operations for price-list-publisher.
type Store interface {
	Ledger

	// ListEntries returns every ledger entry for date, ordered by category
	// and part index.
	ListEntries(ctx context.Context, date string) ([]domain.LedgerEntry, error)
	// PruneBefore deletes ledger entries dated before date and returns the
	// number removed.
	PruneBefore(ctx context.Context, date string) (int, error)

	// Runs
	InsertRun(ctx context.Context, run *domain.Run) error
	CompleteRun(ctx context.Context, run *domain.Run) error
	ListRuns(ctx context.Context, q *RunQuery) ([]domain.Run, error)
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	RecoverStaleRuns(ctx context.Context, olderThan time.Duration) (int, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}
