package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if !strings.Contains(connString, "pool_max_conns") {
		cfg.MaxConns = defaultPoolSize
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, pgMigrations{s.pool}, "migrations/postgres")
}

type pgMigrations struct {
	pool *pgxpool.Pool
}

func (m pgMigrations) ensureMigrationsTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (m pgMigrations) migrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := m.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
		version,
	).Scan(&exists)
	return exists, err
}

func (m pgMigrations) applyMigration(ctx context.Context, version, sql string) error {
	return pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, sql); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version)
		return err
	})
}

// ReadAll returns the ledger entries for one (category, date) partition.
func (s *PostgresStore) ReadAll(
	ctx context.Context,
	category domain.Category,
	date string,
) ([]domain.LedgerEntry, error) {
	rows, err := s.pool.Query(ctx, queryReadLedger, string(category), date)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// ReplaceAll deletes the partition and inserts entries in one transaction.
func (s *PostgresStore) ReplaceAll(
	ctx context.Context,
	category domain.Category,
	date string,
	entries []domain.LedgerEntry,
) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryDeleteLedgerPartition, string(category), date); err != nil {
			return fmt.Errorf("clearing ledger partition: %w", err)
		}

		batch := &pgx.Batch{}
		now := time.Now().UTC()
		for _, e := range entries {
			updated := e.UpdatedAt
			if updated.IsZero() {
				updated = now
			}
			batch.Queue(queryInsertLedgerEntry,
				string(category), date, e.PartIndex, e.MessageID, e.Text, updated)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting ledger entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replacing ledger %s/%s: %w", category, date, err)
	}
	return nil
}

// ListEntries returns every ledger entry for date.
func (s *PostgresStore) ListEntries(ctx context.Context, date string) ([]domain.LedgerEntry, error) {
	rows, err := s.pool.Query(ctx, queryListLedgerByDate, date)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// PruneBefore deletes ledger entries dated before date.
func (s *PostgresStore) PruneBefore(ctx context.Context, date string) (int, error) {
	tag, err := s.pool.Exec(ctx, queryPruneLedger, date)
	if err != nil {
		return 0, fmt.Errorf("pruning ledger: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// InsertRun records the start of a publication run.
func (s *PostgresStore) InsertRun(ctx context.Context, run *domain.Run) error {
	if _, err := s.pool.Exec(ctx, queryInsertRun, run.ID, run.StartedAt, run.Status); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// CompleteRun stores the final status and counters of a run.
func (s *PostgresStore) CompleteRun(ctx context.Context, run *domain.Run) error {
	tag, err := s.pool.Exec(ctx, queryCompleteRun,
		run.ID, run.CompletedAt, run.Status, run.ErrorText, run.Items, run.Changed)
	if err != nil {
		return fmt.Errorf("completing run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("completing run %s: %w", run.ID, ErrRunNotFound)
	}
	return nil
}

// ListRuns returns runs matching q, newest first.
func (s *PostgresStore) ListRuns(ctx context.Context, q *RunQuery) ([]domain.Run, error) {
	sql, args := q.ToSQL(dollarPlaceholder)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var r domain.Run
		if err := scanRun(rows, &r); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a single run by ID.
func (s *PostgresStore) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	var r domain.Run
	err := scanRun(s.pool.QueryRow(ctx, queryGetRun, id), &r)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RecoverStaleRuns marks any 'running' rows older than olderThan as
// 'crashed', then deletes all rows older than 30 days. Returns the number
// of rows marked as crashed.
func (s *PostgresStore) RecoverStaleRuns(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	tag, err := s.pool.Exec(ctx, queryMarkStaleRunsCrashed, cutoff)
	if err != nil {
		return 0, fmt.Errorf("marking stale runs crashed: %w", err)
	}
	affected := int(tag.RowsAffected())

	if _, err := s.pool.Exec(ctx, queryDeleteOldRuns); err != nil {
		return affected, fmt.Errorf("deleting old runs: %w", err)
	}

	return affected, nil
}

// scannable abstracts pgx.Row and pgx.Rows for reuse.
type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable, r *domain.Run) error {
	if err := row.Scan(
		&r.ID, &r.StartedAt, &r.CompletedAt, &r.Status,
		&r.ErrorText, &r.Items, &r.Changed,
	); err != nil {
		return fmt.Errorf("scanning run: %w", err)
	}
	return nil
}

func scanLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			e   domain.LedgerEntry
			cat string
		)
		if err := rows.Scan(&cat, &e.Date, &e.PartIndex, &e.MessageID, &e.Text, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}
		e.Category = domain.Category(cat)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
