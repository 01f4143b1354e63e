// internal/report/queries.go
//
// Read queries behind the report builder.
//
// Context
// -------
// Every query binds `station_id` as a parameter — station scoping is the
// primary invariant of the report, and no identifier is ever interpolated
// into SQL text.  Window bounds are passed in as explicit instants so the
// builder controls them from a single `now`, and both edges are inclusive.
//
// The per-locker "most recent check" selection is by `performed_at`, not
// by row id: row ids are only monotonic with time by accident of insert
// order, and restores or imports break that assumption.
package report

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// latestCheckDate returns the most recent check instant across all time
// for the station, or nil when the station has no checks at all.
func latestCheckDate(ctx context.Context, db *sqlx.DB, stationID int64) (*time.Time, error) {
	const q = `
        SELECT MAX(c.performed_at)
        FROM   checks  c
        JOIN   lockers l ON l.id = c.locker_id
        JOIN   trucks  t ON t.id = l.truck_id
        WHERE  t.station_id = ?`
	var latest sql.NullTime
	if err := db.GetContext(ctx, &latest, q, stationID); err != nil {
		return nil, err
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Time, nil
}

// missingItems returns one row per (locker, absent item), restricted to
// each locker's most recent check inside [from, to].
func missingItems(ctx context.Context, db *sqlx.DB, stationID int64, from, to time.Time) ([]CheckRecord, error) {
	const q = `
        SELECT t.name AS truck_name,
               l.name AS locker_name,
               i.name AS item_name,
               COALESCE(c.note, '') AS note,
               c.performed_at
        FROM   checks      c
        JOIN   lockers     l  ON l.id  = c.locker_id
        JOIN   trucks      t  ON t.id  = l.truck_id
        JOIN   check_items ci ON ci.check_id = c.id
        JOIN   items       i  ON i.id  = ci.item_id
        WHERE  t.station_id  = ?
          AND  c.performed_at >= ? AND c.performed_at <= ?
          AND  ci.present = 0
          AND  c.performed_at = (
                 SELECT MAX(c2.performed_at)
                 FROM   checks c2
                 WHERE  c2.locker_id = c.locker_id
                   AND  c2.performed_at >= ? AND c2.performed_at <= ?)
        ORDER  BY t.name, l.name, l.id, i.id`
	var rows []CheckRecord
	if err := db.SelectContext(ctx, &rows, q, stationID, from, to, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

// recentDeletions returns deletion-log entries inside [from, to], newest
// first.
func recentDeletions(ctx context.Context, db *sqlx.DB, stationID int64, from, to time.Time) ([]DeletionRecord, error) {
	const q = `
        SELECT truck_name, locker_name, item_name, deleted_at
        FROM   deletion_log
        WHERE  station_id = ?
          AND  deleted_at >= ? AND deleted_at <= ?
        ORDER  BY deleted_at DESC, id DESC`
	var rows []DeletionRecord
	if err := db.SelectContext(ctx, &rows, q, stationID, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

// lockerNotes returns every non-blank check note inside [from, to].  The
// SQL TRIM filter drops whitespace-only notes; the builder trims again for
// display.
func lockerNotes(ctx context.Context, db *sqlx.DB, stationID int64, from, to time.Time) ([]NoteRecord, error) {
	const q = `
        SELECT t.name AS truck_name,
               l.name AS locker_name,
               c.note,
               c.performed_at
        FROM   checks  c
        JOIN   lockers l ON l.id = c.locker_id
        JOIN   trucks  t ON t.id = l.truck_id
        WHERE  t.station_id = ?
          AND  c.performed_at >= ? AND c.performed_at <= ?
          AND  TRIM(COALESCE(c.note, '')) <> ''
        ORDER  BY t.name, l.name, l.id, c.performed_at DESC`
	var rows []NoteRecord
	if err := db.SelectContext(ctx, &rows, q, stationID, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}
