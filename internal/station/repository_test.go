// internal/station/repository_test.go
//
// Unit-tests for station row queries using sqlmock.
//
// Run: go test ./internal/station -v

package station

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

func stationColumns() []string {
	return []string{"id", "name", "tz", "suspended_at", "deleted_at", "created_at", "updated_at"}
}

func TestByID(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM station WHERE id = ?`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(stationColumns()).
			AddRow(int64(7), "Black Hill", "Australia/Sydney", nil, nil, now, now))

	rec, err := ByID(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("ByID error: %v", err)
	}
	if rec.ID != 7 || rec.Name != "Black Hill" || rec.TZ != "Australia/Sydney" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestNewStationFallsBackToUTC(t *testing.T) {
	st := NewStation(Record{ID: 1, Name: "X", TZ: "Mars/Olympus"})
	if st.Location() != time.UTC {
		t.Fatalf("unknown zone must fall back to UTC, got %v", st.Location())
	}

	st = NewStation(Record{ID: 2, Name: "Y", TZ: ""})
	if st.Location() != time.UTC {
		t.Fatalf("empty zone must fall back to UTC, got %v", st.Location())
	}
}
