// internal/report/render.go
//
// HTML and plain-text renderings of one report.
//
// Context
// -------
// Both renderings carry the same logical content: header with station name
// and latest-check date, a Missing Items section (or its empty-state
// notice), a Deleted Items section only when the deletion log has entries,
// an All Locker Notes section only when notes exist, and a footer deep
// link back into the locker-check pages.  The HTML path goes through
// html/template so every user-sourced field (truck, locker, item, note)
// is escaped; the plain path is line-oriented with no markup.
//
// Timestamps are pre-formatted into the view before templating, so the
// template itself is trivially deterministic.
package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/stationops/truckchecks/internal/station"
)

// noMissingItemsNotice is the empty-state line both renderings share.
const noMissingItemsNotice = "No missing items reported in the last 6 days."

const stampLayout = "2006-01-02 15:04"

type checkView struct {
	Truck, Locker, Item, Note, When string
}

type deletionView struct {
	Truck, Locker, Item, When string
}

type noteView struct {
	Truck, Locker, Note, When string
}

type reportView struct {
	StationName     string
	LatestCheckDate string
	Checks          []checkView
	Deletions       []deletionView
	Notes           []noteView
	ChecksLink      string
}

// buildView formats every timestamp station-local and precomputes the
// footer link.
func buildView(st *station.Station, latestLabel string, checks []CheckRecord,
	deleted []DeletionRecord, notes []NoteRecord, baseURL string) reportView {

	v := reportView{
		StationName:     st.Name,
		LatestCheckDate: latestLabel,
		ChecksLink: fmt.Sprintf("%s/checks?station_id=%d",
			strings.TrimRight(baseURL, "/"), st.ID),
	}
	loc := st.Location()

	for _, c := range checks {
		v.Checks = append(v.Checks, checkView{
			Truck:  c.Truck,
			Locker: c.Locker,
			Item:   c.Item,
			Note:   c.Note,
			When:   c.ObservedAt.In(loc).Format(stampLayout),
		})
	}
	for _, d := range deleted {
		v.Deletions = append(v.Deletions, deletionView{
			Truck:  d.Truck,
			Locker: d.Locker,
			Item:   d.Item,
			When:   d.DeletedAt.In(loc).Format(stampLayout),
		})
	}
	for _, n := range notes {
		v.Notes = append(v.Notes, noteView{
			Truck:  n.Truck,
			Locker: n.Locker,
			Note:   n.Note,
			When:   n.CheckedAt.In(loc).Format(stampLayout),
		})
	}
	return v
}

var htmlTmpl = template.Must(template.New("report").Parse(`<html>
<body>
<h2>TruckChecks Report - {{.StationName}}</h2>
<p>Latest check: {{.LatestCheckDate}}</p>

<h3>Missing Items</h3>
{{if .Checks}}<ul>
{{range .Checks}}<li><strong>{{.Truck}}</strong> / {{.Locker}}: {{.Item}}{{if .Note}} &mdash; {{.Note}}{{end}} ({{.When}})</li>
{{end}}</ul>
{{else}}<p>` + noMissingItemsNotice + `</p>
{{end}}
{{if .Deletions}}<h3>Deleted Items</h3>
<ul>
{{range .Deletions}}<li><strong>{{.Truck}}</strong> / {{.Locker}}: {{.Item}} (deleted {{.When}})</li>
{{end}}</ul>
{{end}}
{{if .Notes}}<h3>All Locker Notes</h3>
<ul>
{{range .Notes}}<li><strong>{{.Truck}}</strong> / {{.Locker}}: {{.Note}} ({{.When}})</li>
{{end}}</ul>
{{end}}
<p><a href="{{.ChecksLink}}">Open locker checks</a></p>
</body>
</html>
`))

// renderHTML executes the report template.  Errors are template-engine
// failures only; they abort the build.
func renderHTML(v reportView) (string, error) {
	var sb strings.Builder
	if err := htmlTmpl.Execute(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// renderPlain emits the same logical content line-oriented, no markup.
func renderPlain(v reportView) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TruckChecks Report - %s\n", v.StationName)
	fmt.Fprintf(&sb, "Latest check: %s\n\n", v.LatestCheckDate)

	sb.WriteString("Missing Items\n")
	if len(v.Checks) == 0 {
		sb.WriteString(noMissingItemsNotice + "\n")
	} else {
		for _, c := range v.Checks {
			fmt.Fprintf(&sb, "- %s / %s: %s", c.Truck, c.Locker, c.Item)
			if c.Note != "" {
				fmt.Fprintf(&sb, " -- %s", c.Note)
			}
			fmt.Fprintf(&sb, " (%s)\n", c.When)
		}
	}

	if len(v.Deletions) > 0 {
		sb.WriteString("\nDeleted Items\n")
		for _, d := range v.Deletions {
			fmt.Fprintf(&sb, "- %s / %s: %s (deleted %s)\n", d.Truck, d.Locker, d.Item, d.When)
		}
	}

	if len(v.Notes) > 0 {
		sb.WriteString("\nAll Locker Notes\n")
		for _, n := range v.Notes {
			fmt.Fprintf(&sb, "- %s / %s: %s (%s)\n", n.Truck, n.Locker, n.Note, n.When)
		}
	}

	fmt.Fprintf(&sb, "\nLocker checks: %s\n", v.ChecksLink)
	return sb.String()
}
