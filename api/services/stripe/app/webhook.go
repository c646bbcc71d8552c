package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"github.com/tbeaudouin05/otmens-intake/api/services/crm"
	stripedb "github.com/tbeaudouin05/otmens-intake/api/services/stripe/db"
	"github.com/tbeaudouin05/otmens-intake/pkg/audit"
)

const (
	eventPaymentSucceeded    = "payment_intent.succeeded"
	eventPaymentFailed       = "payment_intent.payment_failed"
	eventSubscriptionCreated = "customer.subscription.created"
	eventSubscriptionUpdated = "customer.subscription.updated"
	eventSubscriptionDeleted = "customer.subscription.deleted"
)

// HandleWebhook verifies and processes a Stripe event. Once the signature
// checks out it returns nil: side-effect failures are logged, never returned.
func (s *serviceImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if signature == "" {
		return validationError("Missing stripe-signature header")
	}
	if s.webhookSecret == "" {
		slog.Error("STRIPE_WEBHOOK_SECRET is not configured")
		return configError("Webhook secret not configured")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		slog.Warn("webhook signature verification failed", "err", err)
		return &RequestError{Kind: ErrInvalidSignature, Message: "Invalid signature"}
	}

	eventType := string(event.Type)
	if s.ledger != nil {
		first, err := s.ledger.MarkEventProcessed(event.ID, eventType)
		if err != nil {
			slog.Error("webhook ledger unavailable, processing without dedupe", "event_id", event.ID, "err", err)
		} else if !first {
			slog.Info("duplicate webhook event ignored", "event_id", event.ID, "type", eventType)
			return nil
		}
	}

	switch eventType {
	case eventPaymentSucceeded:
		s.reconcilePayment(ctx, event, crm.StatusPaid)
	case eventPaymentFailed:
		s.reconcilePayment(ctx, event, crm.StatusFailed)
	case eventSubscriptionCreated, eventSubscriptionUpdated, eventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			slog.Error("error unmarshaling subscription event", "event_id", event.ID, "err", err)
			break
		}
		slog.Info("subscription event", "type", eventType, "subscription_id", sub.ID, "status", sub.Status)
	default:
		slog.Info("unhandled webhook event type", "type", eventType)
	}
	return nil
}

// reconcilePayment records the outcome of a payment intent event locally and
// in the CRM. A CRM failure un-marks the event so a manual replay retries it.
func (s *serviceImpl) reconcilePayment(ctx context.Context, event stripe.Event, status string) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		slog.Error("error unmarshaling payment intent event", "event_id", event.ID, "err", err)
		return
	}
	intakeID := pi.Metadata["intakeId"]
	productName := pi.Metadata["productName"]
	slog.Info("payment intent reconciled", "payment_intent_id", pi.ID, "status", status, "intake_id", intakeID)

	if s.ledger != nil {
		err := s.ledger.UpsertPaymentRecord(stripedb.PaymentRecord{
			PaymentIntentID: pi.ID,
			IntakeID:        intakeID,
			Status:          status,
			Amount:          pi.Amount,
			Currency:        string(pi.Currency),
			ProductName:     productName,
			UpdatedAt:       s.now(),
		})
		if err != nil {
			slog.Error("error storing payment record", "payment_intent_id", pi.ID, "err", err)
		}
	}

	err := s.crm.RecordPayment(ctx, crm.PaymentUpdate{
		IntakeID:        intakeID,
		Status:          status,
		PaymentIntentID: pi.ID,
		Amount:          pi.Amount,
		Currency:        string(pi.Currency),
		ProductName:     productName,
		PaidAt:          s.now(),
	})
	var errMsg string
	if err != nil {
		errMsg = err.Error()
		slog.Error("crm payment update failed", "payment_intent_id", pi.ID, "intake_id", intakeID, "err", err)
		if s.ledger != nil {
			if ferr := s.ledger.ForgetEvent(event.ID); ferr != nil {
				slog.Error("error releasing webhook event", "event_id", event.ID, "err", ferr)
			}
		}
	}

	s.logAudit(audit.PHIUpdate, audit.Fields{
		Resource:     "payment",
		Action:       "webhook:" + string(event.Type),
		Details:      map[string]any{"paymentIntentId": pi.ID, "intakeId": intakeID, "status": status},
		Failed:       err != nil,
		ErrorMessage: errMsg,
	})
}

// RecordPaymentSuccess is the client-side shortcut after a confirmed payment.
// The CRM update is best-effort; the webhook remains authoritative.
func (s *serviceImpl) RecordPaymentSuccess(ctx context.Context, req PaymentSuccessRequest) (PaymentSuccessResponse, error) {
	if req.IntakeID == "" {
		return PaymentSuccessResponse{}, validationError("Missing intake ID")
	}
	err := s.crm.RecordPayment(ctx, crm.PaymentUpdate{
		IntakeID:        req.IntakeID,
		Status:          crm.StatusPaid,
		PaymentIntentID: req.PaymentIntentID,
		Amount:          req.Amount,
		ProductName:     req.ProductName,
		PaidAt:          s.now(),
	})
	if err != nil {
		slog.Error("crm payment update failed", "intake_id", req.IntakeID, "payment_intent_id", req.PaymentIntentID, "err", err)
	}
	return PaymentSuccessResponse{Success: true, Message: "Payment recorded successfully"}, nil
}

// PaymentStatus reports what the webhook recorded for a payment intent.
// Without a ledger nothing is recorded, so the intent is never found.
func (s *serviceImpl) PaymentStatus(ctx context.Context, paymentIntentID string) (PaymentStatusResponse, error) {
	if paymentIntentID == "" {
		return PaymentStatusResponse{}, validationError("Missing payment intent ID")
	}
	resp := PaymentStatusResponse{PaymentIntentID: paymentIntentID}
	if s.ledger == nil {
		return resp, nil
	}
	rec, found, err := s.ledger.GetPaymentRecord(paymentIntentID)
	if err != nil {
		return PaymentStatusResponse{}, fmt.Errorf("%w: get payment record: %v", ErrDatabase, err)
	}
	if !found {
		return resp, nil
	}
	resp.Found = true
	resp.Status = rec.Status
	resp.IntakeID = rec.IntakeID
	resp.Amount = rec.Amount
	resp.Currency = rec.Currency
	resp.UpdatedAt = rec.UpdatedAt.UnixMilli()
	return resp, nil
}
