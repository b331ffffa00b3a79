package store

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

const baseRunsSelect = `SELECT id, started_at, completed_at, status,
	COALESCE(error_text, ''), items, changed
FROM runs`

// RunQuery defines optional filters for run history queries.
type RunQuery struct {
	Status  *string
	Changed *bool
	Since   *time.Time
	Limit   int // default 50
	Offset  int
}

// placeholder renders the n-th (1-based) bind parameter of a SQL dialect.
type placeholder func(n int) string

func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func questionPlaceholder(int) string { return "?" }

// Limits returns the effective limit and offset after applying defaults
// and bounds.
func (q *RunQuery) Limits() (limit, offset int) {
	if q == nil {
		return defaultLimit, 0
	}
	limit = q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, max(q.Offset, 0)
}

// ToSQL builds the run history query, newest first, for the dialect whose
// bind parameters ph renders.
func (q *RunQuery) ToSQL(ph placeholder) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if q != nil {
		if q.Status != nil {
			args = append(args, *q.Status)
			conditions = append(conditions, "status = "+ph(len(args)))
		}
		if q.Changed != nil {
			args = append(args, *q.Changed)
			conditions = append(conditions, "changed = "+ph(len(args)))
		}
		if q.Since != nil {
			args = append(args, q.Since.UTC())
			conditions = append(conditions, "started_at >= "+ph(len(args)))
		}
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limit, offset := q.Limits()

	return fmt.Sprintf(
		"%s%s ORDER BY started_at DESC LIMIT %d OFFSET %d",
		baseRunsSelect, whereClause, limit, offset,
	), args
}
