package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// sqliteTime is a fixed-width UTC layout so stored timestamps compare
// correctly as strings.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

const (
	sqliteReadLedger = `
		SELECT category, date, part_index, message_id, text, updated_at
		FROM ledger_entries
		WHERE category = ? AND date = ?
		ORDER BY part_index`

	sqliteDeleteLedgerPartition = `
		DELETE FROM ledger_entries WHERE category = ? AND date = ?`

	sqliteInsertLedgerEntry = `
		INSERT INTO ledger_entries (category, date, part_index, message_id, text, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	sqliteListLedgerByDate = `
		SELECT category, date, part_index, message_id, text, updated_at
		FROM ledger_entries
		WHERE date = ?
		ORDER BY category, part_index`

	sqlitePruneLedger = `DELETE FROM ledger_entries WHERE date < ?`

	sqliteInsertRun = `INSERT INTO runs (id, started_at, status) VALUES (?, ?, ?)`

	sqliteCompleteRun = `
		UPDATE runs SET completed_at = ?, status = ?, error_text = ?, items = ?, changed = ?
		WHERE id = ?`

	sqliteGetRun = baseRunsSelect + ` WHERE id = ?`

	sqliteMarkStaleRunsCrashed = `
		UPDATE runs SET status = 'crashed', completed_at = ?
		WHERE status = 'running' AND started_at < ?`

	sqliteDeleteOldRuns = `DELETE FROM runs WHERE started_at < ?`
)

// SQLiteStore implements Store on a single SQLite file through the pure-Go
// modernc.org/sqlite driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path. Use
// ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// One writer at a time; also keeps a ":memory:" database on a single
	// connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, sqliteMigrations{s.db}, "migrations/sqlite")
}

type sqliteMigrations struct {
	db *sql.DB
}

func (m sqliteMigrations) ensureMigrationsTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

func (m sqliteMigrations) migrationApplied(ctx context.Context, version string) (bool, error) {
	var n int
	err := m.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&n)
	return n > 0, err
}

func (m sqliteMigrations) applyMigration(ctx context.Context, version, migration string) error {
	return withTx(ctx, m.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, migration); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, formatTime(time.Now()),
		)
		return err
	})
}

// ReadAll returns the ledger entries for one (category, date) partition.
func (s *SQLiteStore) ReadAll(ctx context.Context, category domain.Category, date string) ([]domain.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, sqliteReadLedger, string(category), date)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	return scanSQLiteEntries(rows)
}

// ReplaceAll deletes the partition and inserts entries in one transaction.
func (s *SQLiteStore) ReplaceAll(
	ctx context.Context,
	category domain.Category,
	date string,
	entries []domain.LedgerEntry,
) error {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, sqliteDeleteLedgerPartition, string(category), date); err != nil {
			return fmt.Errorf("clearing ledger partition: %w", err)
		}
		now := time.Now()
		for _, e := range entries {
			updated := e.UpdatedAt
			if updated.IsZero() {
				updated = now
			}
			if _, err := tx.ExecContext(ctx, sqliteInsertLedgerEntry,
				string(category), date, e.PartIndex, e.MessageID, e.Text, formatTime(updated),
			); err != nil {
				return fmt.Errorf("inserting ledger entry %d: %w", e.PartIndex, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replacing ledger %s/%s: %w", category, date, err)
	}
	return nil
}

// ListEntries returns every ledger entry for date.
func (s *SQLiteStore) ListEntries(ctx context.Context, date string) ([]domain.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, sqliteListLedgerByDate, date)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	return scanSQLiteEntries(rows)
}

// PruneBefore deletes ledger entries dated before date. ISO-8601 dates
// order correctly as text.
func (s *SQLiteStore) PruneBefore(ctx context.Context, date string) (int, error) {
	res, err := s.db.ExecContext(ctx, sqlitePruneLedger, date)
	if err != nil {
		return 0, fmt.Errorf("pruning ledger: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning ledger: %w", err)
	}
	return int(n), nil
}

// InsertRun records the start of a publication run.
func (s *SQLiteStore) InsertRun(ctx context.Context, run *domain.Run) error {
	if _, err := s.db.ExecContext(ctx, sqliteInsertRun, run.ID, formatTime(run.StartedAt), run.Status); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// CompleteRun stores the final status and counters of a run.
func (s *SQLiteStore) CompleteRun(ctx context.Context, run *domain.Run) error {
	var completed any
	if run.CompletedAt != nil {
		completed = formatTime(*run.CompletedAt)
	}
	res, err := s.db.ExecContext(ctx, sqliteCompleteRun,
		completed, run.Status, run.ErrorText, run.Items, run.Changed, run.ID)
	if err != nil {
		return fmt.Errorf("completing run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("completing run %s: %w", run.ID, ErrRunNotFound)
	}
	return nil
}

// ListRuns returns runs matching q, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, q *RunQuery) ([]domain.Run, error) {
	query, args := q.ToSQL(questionPlaceholder)
	for i, a := range args {
		if t, ok := a.(time.Time); ok {
			args[i] = formatTime(t)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		r, err := scanSQLiteRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a single run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	r, err := scanSQLiteRun(s.db.QueryRowContext(ctx, sqliteGetRun, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RecoverStaleRuns marks any 'running' rows older than olderThan as
// 'crashed', then deletes all rows older than 30 days.
func (s *SQLiteStore) RecoverStaleRuns(ctx context.Context, olderThan time.Duration) (int, error) {
	now := time.Now()

	res, err := s.db.ExecContext(ctx, sqliteMarkStaleRunsCrashed,
		formatTime(now), formatTime(now.Add(-olderThan)))
	if err != nil {
		return 0, fmt.Errorf("marking stale runs crashed: %w", err)
	}
	n, _ := res.RowsAffected()

	if _, err := s.db.ExecContext(ctx, sqliteDeleteOldRuns, formatTime(now.AddDate(0, 0, -30))); err != nil {
		return int(n), fmt.Errorf("deleting old runs: %w", err)
	}
	return int(n), nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTime)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(sqliteTime, s)
}

func scanSQLiteEntries(rows *sql.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			e       domain.LedgerEntry
			cat     string
			updated string
		)
		if err := rows.Scan(&cat, &e.Date, &e.PartIndex, &e.MessageID, &e.Text, &updated); err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}
		t, err := parseTime(updated)
		if err != nil {
			return nil, fmt.Errorf("parsing ledger updated_at: %w", err)
		}
		e.Category = domain.Category(cat)
		e.UpdatedAt = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanSQLiteRun(row scannable) (domain.Run, error) {
	var (
		r         domain.Run
		started   string
		completed sql.NullString
	)
	if err := row.Scan(&r.ID, &started, &completed, &r.Status, &r.ErrorText, &r.Items, &r.Changed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("scanning run: %w", err)
	}

	t, err := parseTime(started)
	if err != nil {
		return r, fmt.Errorf("parsing run started_at: %w", err)
	}
	r.StartedAt = t

	if completed.Valid {
		c, err := parseTime(completed.String)
		if err != nil {
			return r, fmt.Errorf("parsing run completed_at: %w", err)
		}
		r.CompletedAt = &c
	}
	return r, nil
}
