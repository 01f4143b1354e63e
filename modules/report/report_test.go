// modules/report/report_test.go
//
// Handler-level tests.  SQL goes through sqlmock; the SMTP seam is a
// recorder, so nothing touches the network.

package report

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/stationops/truckchecks/internal/config"
	"github.com/stationops/truckchecks/internal/mailer"
	"github.com/stationops/truckchecks/internal/module"
	"github.com/stationops/truckchecks/internal/station"
)

func newEnv(t *testing.T) (*module.Env, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })

	cfg := &config.Config{}
	cfg.HTTP.BaseURL = "https://checks.example.org"
	cfg.SMTP = config.SMTP{
		Host:     "smtp.example.org",
		Port:     587,
		Username: "reports@example.org",
		Password: "hunter2",
		Security: "starttls",
		FromName: "TruckChecks",
	}
	return &module.Env{DB: sqlx.NewDb(raw, "sqlmock"), Cfg: cfg}, mock
}

func testStation() *station.Station {
	return station.NewStation(station.Record{ID: 7, Name: "Black Hill", TZ: "UTC"})
}

// expectBuild wires the six build queries with wildcard window args; the
// handler uses the wall clock.
func expectBuild(mock sqlmock.Sqlmock, recipients ...string) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(c.performed_at)`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))
	mock.ExpectQuery(regexp.QuoteMeta(`AND ci.present = 0`)).
		WithArgs(int64(7), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(
			[]string{"truck_name", "locker_name", "item_name", "note", "performed_at"}))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM deletion_log`)).
		WithArgs(int64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(
			[]string{"truck_name", "locker_name", "item_name", "deleted_at"}))
	mock.ExpectQuery(regexp.QuoteMeta(`TRIM(COALESCE(c.note, '')) <> ''`)).
		WithArgs(int64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(
			[]string{"truck_name", "locker_name", "note", "performed_at"}))
	emailRows := sqlmock.NewRows([]string{"email"})
	for _, e := range recipients {
		emailRows.AddRow(e)
	}
	mock.ExpectQuery(regexp.QuoteMeta(`FROM station_emails`)).
		WithArgs(int64(7)).
		WillReturnRows(emailRows)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM station_settings`)).
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)
}

type smtpRecorder struct {
	calls []string // destinations in order
	msgs  [][]byte
	fail  map[string]bool
}

func stubSMTP(t *testing.T) *smtpRecorder {
	t.Helper()
	rec := &smtpRecorder{fail: map[string]bool{}}
	orig := mailer.SMTPSendFunc
	mailer.SMTPSendFunc = func(_ string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		rec.calls = append(rec.calls, to[0])
		rec.msgs = append(rec.msgs, msg)
		if rec.fail[to[0]] {
			return errors.New("550 mailbox unavailable")
		}
		return nil
	}
	t.Cleanup(func() { mailer.SMTPSendFunc = orig })
	return rec
}

func TestPreviewReturnsReportJSON(t *testing.T) {
	env, mock := newEnv(t)
	expectBuild(mock, "a@x.com", "b@x.com")

	req := httptest.NewRequest(http.MethodGet, "/report/preview?station_id=7", nil)
	w := httptest.NewRecorder()
	handlePreview(env, testStation(), w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp previewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if !resp.Success {
		t.Fatalf("success = false: %s", w.Body.String())
	}
	if !strings.Contains(resp.Subject, "Black Hill") || !strings.Contains(resp.Subject, "No checks found") {
		t.Errorf("subject = %q", resp.Subject)
	}
	if len(resp.Emails) != 2 {
		t.Errorf("emails = %v", resp.Emails)
	}
	if resp.HTMLContent == "" || resp.PlainContent == "" {
		t.Errorf("report bodies must never be empty")
	}
}

func TestPreviewRequiresStation(t *testing.T) {
	env, _ := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/report/preview", nil)
	w := httptest.NewRecorder()
	handlePreview(env, nil, w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPreviewBuildFailure(t *testing.T) {
	env, mock := newEnv(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(c.performed_at)`)).
		WillReturnError(sql.ErrConnDone)

	req := httptest.NewRequest(http.MethodGet, "/report/preview?station_id=7", nil)
	w := httptest.NewRecorder()
	handlePreview(env, testStation(), w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "could not generate report") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestSendAppendsPreviewSuffix(t *testing.T) {
	env, _ := newEnv(t)
	rec := stubSMTP(t)

	body := `{"email":"dest@x.com","subject":"TruckChecks Report - Black Hill - 2026-08-29",` +
		`"htmlContent":"<p>h</p>","plainContent":"p"}`
	req := httptest.NewRequest(http.MethodPost, "/report/send", strings.NewReader(body))
	w := httptest.NewRecorder()
	handleSend(env, nil, w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(rec.msgs) != 1 {
		t.Fatalf("expected one send, got %d", len(rec.msgs))
	}
	if !strings.Contains(string(rec.msgs[0]), "Subject: TruckChecks Report - Black Hill - 2026-08-29 (PREVIEW)") {
		t.Errorf("preview suffix missing:\n%s", rec.msgs[0])
	}
}

func TestSendRejectsBadAddress(t *testing.T) {
	env, _ := newEnv(t)
	rec := stubSMTP(t)

	body := `{"email":"nope","subject":"s","htmlContent":"h","plainContent":"p"}`
	req := httptest.NewRequest(http.MethodPost, "/report/send", strings.NewReader(body))
	w := httptest.NewRecorder()
	handleSend(env, nil, w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("transport touched for an invalid address")
	}
}

func TestSendUnconfiguredRelay(t *testing.T) {
	env, _ := newEnv(t)
	env.Cfg.SMTP = config.SMTP{}
	rec := stubSMTP(t)

	body := `{"email":"dest@x.com","subject":"s","htmlContent":"h","plainContent":"p"}`
	req := httptest.NewRequest(http.MethodPost, "/report/send", strings.NewReader(body))
	w := httptest.NewRecorder()
	handleSend(env, nil, w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not configured") {
		t.Errorf("body = %s", w.Body.String())
	}
	if len(rec.calls) != 0 {
		t.Fatalf("transport touched despite missing configuration")
	}
}

// One failing recipient never aborts the fan-out.
func TestDispatchIsolatesFailures(t *testing.T) {
	env, mock := newEnv(t)
	expectBuild(mock, "bad@x.com", "good@x.com")
	rec := stubSMTP(t)
	rec.fail["bad@x.com"] = true

	req := httptest.NewRequest(http.MethodPost, "/report/dispatch?station_id=7", nil)
	w := httptest.NewRecorder()
	handleDispatch(env, testStation(), w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp dispatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %+v", resp.Results)
	}
	if resp.Results[0].Sent || resp.Results[0].Error == "" {
		t.Errorf("first result should have failed: %+v", resp.Results[0])
	}
	if !resp.Results[1].Sent {
		t.Errorf("second result should have succeeded: %+v", resp.Results[1])
	}
	if len(rec.calls) != 2 {
		t.Fatalf("both recipients must be attempted, got %v", rec.calls)
	}
}
