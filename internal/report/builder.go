// internal/report/builder.go
//
// Station report assembly.
//
// Context
// -------
// Build is a pure function of (station, now, data-store contents): five
// read queries, two renderings, one subject line.  It never writes, so it
// may run concurrently with anything, and two builds against the same
// data snapshot and the same `now` produce byte-identical output.
//
// Failure policy: a store error in any query aborts the build with a
// *BuildError — no partial Report.  *Absence* is never an error: empty
// result sets render as empty-state messaging, a missing admin-email
// setting degrades to "no admin address", and a station with no checks at
// all gets the NoChecksMarker in its subject.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/stationops/truckchecks/internal/metrics"
	"github.com/stationops/truckchecks/internal/station"
)

// Builder aggregates the read queries into a Report.  BaseURL is the
// externally visible origin used for the footer deep link.
type Builder struct {
	DB      *sqlx.DB
	BaseURL string
}

// Build produces the Report for one station at one instant.  The caller
// has already verified that the station exists and that the requesting
// identity is authorized for it; no authorization happens here.
func (b *Builder) Build(ctx context.Context, st *station.Station, now time.Time) (*Report, error) {
	checkFrom := now.Add(-CheckWindow)
	delFrom := now.Add(-DeletionWindow)

	latest, err := latestCheckDate(ctx, b.DB, st.ID)
	if err != nil {
		metrics.ReportBuildErrorsTotal.Inc()
		return nil, &BuildError{Op: "latest check date", Err: err}
	}

	checks, err := missingItems(ctx, b.DB, st.ID, checkFrom, now)
	if err != nil {
		metrics.ReportBuildErrorsTotal.Inc()
		return nil, &BuildError{Op: "missing items", Err: err}
	}

	deleted, err := recentDeletions(ctx, b.DB, st.ID, delFrom, now)
	if err != nil {
		metrics.ReportBuildErrorsTotal.Inc()
		return nil, &BuildError{Op: "deletion log", Err: err}
	}

	notes, err := lockerNotes(ctx, b.DB, st.ID, checkFrom, now)
	if err != nil {
		metrics.ReportBuildErrorsTotal.Inc()
		return nil, &BuildError{Op: "locker notes", Err: err}
	}

	recipients, err := b.resolveRecipients(ctx, st.ID)
	if err != nil {
		metrics.ReportBuildErrorsTotal.Inc()
		return nil, &BuildError{Op: "recipients", Err: err}
	}

	// Notes arrive TRIM-filtered from SQL; trim once more for display so
	// leading or trailing whitespace never reaches a rendering.
	for i := range notes {
		notes[i].Note = strings.TrimSpace(notes[i].Note)
	}
	for i := range checks {
		checks[i].Note = strings.TrimSpace(checks[i].Note)
	}

	latestLabel := NoChecksMarker
	if latest != nil {
		latestLabel = latest.In(st.Location()).Format("2006-01-02")
	}

	view := buildView(st, latestLabel, checks, deleted, notes, b.BaseURL)
	htmlBody, err := renderHTML(view)
	if err != nil {
		metrics.ReportBuildErrorsTotal.Inc()
		return nil, &BuildError{Op: "html render", Err: err}
	}

	rep := &Report{
		StationID:   st.ID,
		StationName: st.Name,
		Subject:     fmt.Sprintf("%s - %s - %s", subjectTitle, st.Name, latestLabel),
		HTMLBody:    htmlBody,
		PlainBody:   renderPlain(view),
		Recipients:  recipients,
	}

	metrics.ReportBuildTotal.Inc()
	return rep, nil
}

// resolveRecipients unions the explicit list with the admin-email setting,
// dropping blanks and duplicates while keeping insertion order.  An absent
// admin setting is fine; a store error is not.
func (b *Builder) resolveRecipients(ctx context.Context, stationID int64) ([]string, error) {
	explicit, err := station.RecipientEmails(ctx, b.DB, stationID)
	if err != nil {
		return nil, err
	}
	admin, err := station.AdminEmail(ctx, b.DB, stationID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(explicit)+1)
	out := make([]string, 0, len(explicit)+1)
	for _, e := range append(explicit, admin) {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out, nil
}
