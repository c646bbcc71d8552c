package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// schema is written in the subset of SQL shared by Postgres and SQLite.
// Timestamps are unix milliseconds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS webhook_event (
		event_id   TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payment_record (
		payment_intent_id TEXT PRIMARY KEY,
		intake_id         TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL,
		amount            BIGINT NOT NULL DEFAULT 0,
		currency          TEXT NOT NULL DEFAULT '',
		product_name      TEXT NOT NULL DEFAULT '',
		updated_at        BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS payment_record_intake_idx ON payment_record (intake_id)`,
	`CREATE TABLE IF NOT EXISTS rate_limit (
		bucket   TEXT PRIMARY KEY,
		hits     INTEGER NOT NULL,
		reset_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_event (
		id            TEXT PRIMARY KEY,
		event_type    TEXT NOT NULL,
		session_id    TEXT NOT NULL DEFAULT '',
		resource      TEXT NOT NULL DEFAULT '',
		action        TEXT NOT NULL DEFAULT '',
		details       TEXT NOT NULL DEFAULT '{}',
		success       BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		ip_address    TEXT NOT NULL DEFAULT '',
		user_agent    TEXT NOT NULL DEFAULT '',
		created_at    BIGINT NOT NULL
	)`,
}

// Migrate creates any missing tables. It is safe to run repeatedly.
func Migrate(conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// OpenMemory opens a migrated, uniquely named in-memory SQLite database.
// Tests use it in place of Postgres.
func OpenMemory() (*sql.DB, error) {
	conn, err := Open(fmt.Sprintf("%sfile:%s?mode=memory&cache=shared", sqliteScheme, uuid.NewString()))
	if err != nil {
		return nil, err
	}
	if err := Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
