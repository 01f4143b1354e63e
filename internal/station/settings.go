// internal/station/settings.go
//
// Recipient and admin-email settings for one station.
//
// Context
// -------
// Two tables back the email configuration surface:
//
//	station_emails   (id PK AUTO_INCREMENT, station_id, email)
//	station_settings (station_id PK, admin_email)
//
// `station_emails` is the explicit recipient list; insertion order (the
// AUTO_INCREMENT id) is the list order the report preserves.  The single
// admin-email setting is written with one atomic upsert — never a
// check-then-insert pair, which would race under concurrent admins.
package station

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

// RecipientEmails returns the explicit recipient list in insertion order.
func RecipientEmails(ctx context.Context, db *sqlx.DB, stationID int64) ([]string, error) {
	const q = `
        SELECT email
        FROM   station_emails
        WHERE  station_id = ?
        ORDER  BY id`
	var emails []string
	if err := db.SelectContext(ctx, &emails, q, stationID); err != nil {
		return nil, err
	}
	return emails, nil
}

// AddRecipientEmail appends one address to the station's explicit list.
func AddRecipientEmail(ctx context.Context, db *sqlx.DB, stationID int64, email string) error {
	const q = `INSERT INTO station_emails (station_id, email) VALUES (?, ?)`
	_, err := db.ExecContext(ctx, q, stationID, strings.TrimSpace(email))
	return err
}

// RemoveRecipientEmail deletes one list entry.  The station id is part of
// the predicate so a stale id can never cross station boundaries.
func RemoveRecipientEmail(ctx context.Context, db *sqlx.DB, stationID, entryID int64) error {
	const q = `DELETE FROM station_emails WHERE id = ? AND station_id = ?`
	_, err := db.ExecContext(ctx, q, entryID, stationID)
	return err
}

// AdminEmail returns the station's configured admin address, or "" when
// the setting row is absent.  Absence is not an error; store failures are.
func AdminEmail(ctx context.Context, db *sqlx.DB, stationID int64) (string, error) {
	const q = `
        SELECT admin_email
        FROM   station_settings
        WHERE  station_id = ?
        LIMIT  1`
	var email string
	err := db.GetContext(ctx, &email, q, stationID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

// UpsertAdminEmail writes the admin-email setting with a single atomic
// statement.
func UpsertAdminEmail(ctx context.Context, db *sqlx.DB, stationID int64, email string) error {
	const q = `
        INSERT INTO station_settings (station_id, admin_email)
        VALUES (?, ?)
        ON DUPLICATE KEY UPDATE admin_email = VALUES(admin_email)`
	_, err := db.ExecContext(ctx, q, stationID, strings.TrimSpace(email))
	return err
}
