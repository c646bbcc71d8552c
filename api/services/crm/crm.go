// Package crm pushes payment outcomes onto intake records held in the
// spreadsheet-backed CRM. Every call is best-effort from the caller's point
// of view: the payment has already happened when these run.
package crm

import (
	"context"
	"time"
)

// Payment statuses written to the CRM record.
const (
	StatusPaid   = "Paid"
	StatusFailed = "Failed"
)

// PaymentUpdate is the outcome patched onto an intake record.
type PaymentUpdate struct {
	IntakeID        string
	Status          string
	PaymentIntentID string
	// Amount is in minor units.
	Amount      int64
	Currency    string
	ProductName string
	PaidAt      time.Time
}

// Recorder patches intake records with payment outcomes.
type Recorder interface {
	RecordPayment(ctx context.Context, u PaymentUpdate) error
}

// Noop discards every update.
type Noop struct{}

func (Noop) RecordPayment(context.Context, PaymentUpdate) error { return nil }
