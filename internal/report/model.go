// internal/report/model.go
//
// Value types for the station report.
//
// Context
// -------
// A Report is a pure aggregation of one station's recent check history:
// missing items, deletion-log entries, locker notes, and the recipient
// list.  It is built once per request, optionally previewed, sent zero or
// more times, and discarded.  It has no identity and is never persisted.
//
// Notes
// -----
//   - Treat a built Report as immutable; the preview path derives its
//     subject via PreviewSubject() instead of mutating the value.
//   - All record timestamps are station-local by the time they reach the
//     renderers.
package report

import "time"

// Window bounds, measured back from the build instant.  Checks and notes
// share the shorter window; the deletion log keeps a full week.
const (
	CheckWindow    = 6 * 24 * time.Hour
	DeletionWindow = 7 * 24 * time.Hour
)

// NoChecksMarker substitutes for the latest check date when a station has
// no check history at all.  It propagates into the subject line unchanged.
const NoChecksMarker = "No checks found"

// subjectTitle is the fixed leading segment of every report subject.
const subjectTitle = "TruckChecks Report"

// CheckRecord is one missing-item observation: the item was absent in the
// locker's most recent check inside the check window.
type CheckRecord struct {
	Truck      string    `db:"truck_name"`
	Locker     string    `db:"locker_name"`
	Item       string    `db:"item_name"`
	Note       string    `db:"note"`
	ObservedAt time.Time `db:"performed_at"`
}

// DeletionRecord is one entry from the append-only deletion log.
type DeletionRecord struct {
	Truck     string    `db:"truck_name"`
	Locker    string    `db:"locker_name"`
	Item      string    `db:"item_name"`
	DeletedAt time.Time `db:"deleted_at"`
}

// NoteRecord is one non-blank note attached to a check in the window.
type NoteRecord struct {
	Truck     string    `db:"truck_name"`
	Locker    string    `db:"locker_name"`
	Note      string    `db:"note"`
	CheckedAt time.Time `db:"performed_at"`
}

// Report is the immutable build output.  Recipients is deduplicated and
// keeps the explicit list's insertion order, admin address last.
type Report struct {
	StationID   int64
	StationName string
	Subject     string
	HTMLBody    string
	PlainBody   string
	Recipients  []string
}

// PreviewSubject returns the subject used for a single-address preview
// dispatch.
func (r *Report) PreviewSubject() string { return r.Subject + " (PREVIEW)" }

// BuildError wraps a data-store failure that aborted the build.  Partial
// reports are never returned alongside one.
type BuildError struct {
	Op  string // which query failed
	Err error
}

func (e *BuildError) Error() string { return "report build: " + e.Op + ": " + e.Err.Error() }
func (e *BuildError) Unwrap() error { return e.Err }
