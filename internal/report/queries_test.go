// internal/report/queries_test.go
//
// Unit-tests for the report read queries using sqlmock.
//
// Run: go test ./internal/report -v

package report

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestLatestCheckDate(t *testing.T) {
	db, mock := newMockDB(t)

	want := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(c.performed_at)`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(want))

	got, err := latestCheckDate(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("latestCheckDate error: %v", err)
	}
	if got == nil || !got.Equal(want) {
		t.Fatalf("latestCheckDate = %v, want %v", got, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestLatestCheckDateNoHistory(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(c.performed_at)`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	got, err := latestCheckDate(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("latestCheckDate error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for a station with no checks, got %v", got)
	}
}

func TestMissingItemsBindsStationAndWindow(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	from := now.Add(-CheckWindow)

	rows := sqlmock.NewRows(
		[]string{"truck_name", "locker_name", "item_name", "note", "performed_at"}).
		AddRow("Pumper 1", "Locker A", "Axe", "", now.Add(-time.Hour)).
		AddRow("Pumper 1", "Locker B", "Hose Strap", "torn", now.Add(-2*time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`AND ci.present = 0`)).
		WithArgs(int64(7), from, now, from, now).
		WillReturnRows(rows)

	got, err := missingItems(context.Background(), db, 7, from, now)
	if err != nil {
		t.Fatalf("missingItems error: %v", err)
	}
	if len(got) != 2 || got[0].Item != "Axe" || got[1].Note != "torn" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRecentDeletionsBindsStationAndWindow(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	from := now.Add(-DeletionWindow)

	rows := sqlmock.NewRows(
		[]string{"truck_name", "locker_name", "item_name", "deleted_at"}).
		AddRow("Tanker 2", "Locker C", "Nozzle", now.Add(-24*time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM deletion_log WHERE station_id = ?`)).
		WithArgs(int64(7), from, now).
		WillReturnRows(rows)

	got, err := recentDeletions(context.Background(), db, 7, from, now)
	if err != nil {
		t.Fatalf("recentDeletions error: %v", err)
	}
	if len(got) != 1 || got[0].Item != "Nozzle" {
		t.Fatalf("unexpected result: %#v", got)
	}
}

func TestLockerNotesFiltersBlank(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	from := now.Add(-CheckWindow)

	// The SQL filter drops whitespace-only notes; the mock returns only
	// rows that survive it.
	rows := sqlmock.NewRows(
		[]string{"truck_name", "locker_name", "note", "performed_at"}).
		AddRow("Pumper 1", "Locker A", "  needs restock ", now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`TRIM(COALESCE(c.note, '')) <> ''`)).
		WithArgs(int64(7), from, now).
		WillReturnRows(rows)

	got, err := lockerNotes(context.Background(), db, 7, from, now)
	if err != nil {
		t.Fatalf("lockerNotes error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected result: %#v", got)
	}
}
