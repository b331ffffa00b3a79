package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// Truncate empties every table. Used by integration tests that share one
// database container.
func (s *PostgresStore) Truncate(t *testing.T) {
	t.Helper()
	_, err := s.pool.Exec(context.Background(), "TRUNCATE ledger_entries, runs")
	require.NoError(t, err)
}
