// internal/inventory/deletionlog.go
//
// Append primitive for the item deletion log.
//
// Context
// -------
// When an admin removes an item (or a whole locker or truck), the CRUD
// layer records the event here before the row disappears, denormalising
// the display names so the report can still show what was deleted.  The
// log is append-only; the report reads the trailing week of it.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// DeletionEntry is one recorded removal.
type DeletionEntry struct {
	StationID int64     `db:"station_id"`
	Truck     string    `db:"truck_name"`
	Locker    string    `db:"locker_name"`
	Item      string    `db:"item_name"`
	DeletedAt time.Time `db:"deleted_at"`
}

// LogDeletion appends one entry.  Names are trimmed; the timestamp is
// supplied by the caller so batch deletions share one instant.
func LogDeletion(ctx context.Context, db *sqlx.DB, e DeletionEntry) error {
	const q = `
        INSERT INTO deletion_log (station_id, truck_name, locker_name, item_name, deleted_at)
        VALUES (?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, q,
		e.StationID,
		strings.TrimSpace(e.Truck),
		strings.TrimSpace(e.Locker),
		strings.TrimSpace(e.Item),
		e.DeletedAt,
	)
	return err
}
