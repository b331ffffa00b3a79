package store

// SQL query constants for PostgresStore. SQLite equivalents live in
// sqlite.go where the dialect differs.
const (
	// Ledger queries.
	queryReadLedger = `
		SELECT category, date::text, part_index, message_id, text, updated_at
		FROM ledger_entries
		WHERE category = $1 AND date = $2::date
		ORDER BY part_index`

	queryDeleteLedgerPartition = `
		DELETE FROM ledger_entries
		WHERE category = $1 AND date = $2::date`

	queryInsertLedgerEntry = `
		INSERT INTO ledger_entries (category, date, part_index, message_id, text, updated_at)
		VALUES ($1, $2::date, $3, $4, $5, $6)`

	queryListLedgerByDate = `
		SELECT category, date::text, part_index, message_id, text, updated_at
		FROM ledger_entries
		WHERE date = $1::date
		ORDER BY category, part_index`

	queryPruneLedger = `
		DELETE FROM ledger_entries WHERE date < $1::date`

	// Run queries.
	queryInsertRun = `
		INSERT INTO runs (id, started_at, status)
		VALUES ($1, $2, $3)`

	queryCompleteRun = `
		UPDATE runs SET
			completed_at = $2,
			status       = $3,
			error_text   = $4,
			items        = $5,
			changed      = $6
		WHERE id = $1`

	queryGetRun = baseRunsSelect + `
		WHERE id = $1`

	queryMarkStaleRunsCrashed = `
		UPDATE runs SET
			status       = 'crashed',
			completed_at = now()
		WHERE status = 'running' AND started_at < $1`

	queryDeleteOldRuns = `
		DELETE FROM runs WHERE started_at < now() - interval '30 days'`
)
