package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	database "github.com/tbeaudouin05/otmens-intake/api/database"
)

// ErrNoDatabase is returned when DATABASE_URL was not configured.
var ErrNoDatabase = errors.New("database not configured")

// PaymentRecord is the local copy of the processor's authoritative payment outcome.
type PaymentRecord struct {
	PaymentIntentID string
	IntakeID        string
	Status          string
	Amount          int64
	Currency        string
	ProductName     string
	UpdatedAt       time.Time
}

func conn() (*sql.DB, error) {
	db := database.GetDB()
	if db == nil {
		return nil, ErrNoDatabase
	}
	return db, nil
}

// MarkEventProcessed records a webhook event id. It returns false when the
// event was already recorded, i.e. this is a redelivery.
func MarkEventProcessed(eventID, eventType string) (bool, error) {
	db, err := conn()
	if err != nil {
		return false, err
	}
	res, err := db.Exec(
		`INSERT INTO webhook_event (event_id, event_type, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (event_id) DO NOTHING`,
		eventID, eventType, time.Now().UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("error inserting webhook_event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	return n == 1, nil
}

// ForgetEvent removes an event id so a failed delivery can be retried.
func ForgetEvent(eventID string) error {
	db, err := conn()
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM webhook_event WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("error deleting webhook_event: %w", err)
	}
	return nil
}

// UpsertPaymentRecord inserts or replaces the record for rec.PaymentIntentID.
func UpsertPaymentRecord(rec PaymentRecord) error {
	db, err := conn()
	if err != nil {
		return err
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err = db.Exec(
		`INSERT INTO payment_record (payment_intent_id, intake_id, status, amount, currency, product_name, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (payment_intent_id) DO UPDATE SET
		   intake_id = excluded.intake_id,
		   status = excluded.status,
		   amount = excluded.amount,
		   currency = excluded.currency,
		   product_name = excluded.product_name,
		   updated_at = excluded.updated_at`,
		rec.PaymentIntentID, rec.IntakeID, rec.Status, rec.Amount, rec.Currency, rec.ProductName, updated.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("error upserting payment_record: %w", err)
	}
	return nil
}

// GetPaymentRecord returns the record for a payment intent, if one exists.
func GetPaymentRecord(paymentIntentID string) (PaymentRecord, bool, error) {
	db, err := conn()
	if err != nil {
		return PaymentRecord{}, false, err
	}
	var rec PaymentRecord
	var updated int64
	err = db.QueryRow(
		`SELECT payment_intent_id, intake_id, status, amount, currency, product_name, updated_at
		 FROM payment_record WHERE payment_intent_id = $1`,
		paymentIntentID,
	).Scan(&rec.PaymentIntentID, &rec.IntakeID, &rec.Status, &rec.Amount, &rec.Currency, &rec.ProductName, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return PaymentRecord{}, false, nil
	}
	if err != nil {
		return PaymentRecord{}, false, fmt.Errorf("error selecting payment_record: %w", err)
	}
	rec.UpdatedAt = time.UnixMilli(updated)
	return rec, true, nil
}
