// internal/station/repository.go
//
// Station-table query helpers.
//
// Context
// -------
// Read-only access to the **station** table:
//
//   - `AllActive` — admin dashboards, cron jobs, batch report dispatch.
//   - `ByID`      — station loader on first request.
//
// Both helpers exclude suspended or deleted rows at SQL level to keep
// callers simple.  Callers supply a *sqlx.DB connected to the
// control-plane database; each helper executes exactly one parameterised
// SELECT and returns errors verbatim so the caller can wrap or log them.
package station

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// AllActive returns every station that is neither suspended nor deleted.
// Intended for dashboards or batch operations, not the per-request path.
func AllActive(db *sqlx.DB) ([]Record, error) {
	const q = `
        SELECT id, name, tz, suspended_at, deleted_at, created_at, updated_at
        FROM   station
        WHERE  suspended_at IS NULL
          AND  deleted_at   IS NULL`
	var rows []Record
	if err := db.Select(&rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ByID fetches a single station row that is not suspended or deleted.  The
// lookup respects request deadlines via the supplied context.Context.
func ByID(ctx context.Context, db *sqlx.DB, id int64) (*Record, error) {
	const q = `
        SELECT id, name, tz, suspended_at, deleted_at, created_at, updated_at
        FROM   station
        WHERE  id = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, id); err != nil {
		return nil, err
	}
	return &rec, nil
}
