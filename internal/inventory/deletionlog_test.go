package inventory

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func TestLogDeletionTrimsNames(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	when := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO deletion_log`)).
		WithArgs(int64(7), "Pumper 1", "Locker A", "Axe", when).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = LogDeletion(context.Background(), db, DeletionEntry{
		StationID: 7,
		Truck:     " Pumper 1 ",
		Locker:    "Locker A",
		Item:      " Axe",
		DeletedAt: when,
	})
	if err != nil {
		t.Fatalf("LogDeletion error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
