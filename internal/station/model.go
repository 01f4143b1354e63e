// internal/station/model.go
//
// Station row model and runtime aggregate.
//
// Context
// -------
// A station is the tenant scope of the system: it owns trucks, lockers,
// items, recipient settings, and the check history the report reads.  The
// operational state of a row is captured by two nullable timestamps:
//
//   - SuspendedAt – station is temporarily disabled (e.g., billing).
//   - DeletedAt   – station is permanently removed.
//
// Either timestamp being non-NULL prevents the loader from serving the
// station.
//
// Notes
// -----
//   - Handlers must treat Station as immutable after load.
//   - `TZ` is an IANA zone name ("Australia/Sydney"); report dates are
//     rendered station-local.  An empty or unknown zone falls back to UTC.
package station

import (
	"time"
)

//
// Row model
//

// Record mirrors one row in the persistent `station` table.
type Record struct {
	ID          int64      `db:"id"`
	Name        string     `db:"name"`
	TZ          string     `db:"tz"`
	SuspendedAt *time.Time `db:"suspended_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

//
// Runtime aggregate
//

// Station groups the station row with its resolved time zone.  Built by
// the cache on first load and shared read-only between requests.
type Station struct {
	Record
	loc *time.Location
}

// NewStation resolves the record's zone once.  Unknown zones degrade to
// UTC rather than failing the load.
func NewStation(rec Record) *Station {
	loc, err := time.LoadLocation(rec.TZ)
	if err != nil || rec.TZ == "" {
		loc = time.UTC
	}
	return &Station{Record: rec, loc: loc}
}

// Location returns the station-local time zone.
func (s *Station) Location() *time.Location { return s.loc }
