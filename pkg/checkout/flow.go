package checkout

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	stripeapp "github.com/tbeaudouin05/otmens-intake/api/services/stripe/app"
	"github.com/tbeaudouin05/otmens-intake/pkg/intake"
)

var ErrNoProduct = errors.New("no product selected")

// API is the part of the checkout HTTP API the flow calls. *client.Client implements it.
type API interface {
	CreatePaymentIntent(ctx context.Context, req stripeapp.CreatePaymentIntentRequest) (stripeapp.CreatePaymentIntentResponse, error)
	CreateSubscription(ctx context.Context, req stripeapp.CreateSubscriptionRequest) (stripeapp.CreateSubscriptionResponse, error)
	PaymentSuccess(ctx context.Context, req stripeapp.PaymentSuccessRequest) (stripeapp.PaymentSuccessResponse, error)
}

// Flow walks one checkout attempt through the API, keeping the Store in step.
type Flow struct {
	api     API
	store   *Store
	storage intake.Storage
}

func NewFlow(api API, store *Store, storage intake.Storage) *Flow {
	return &Flow{api: api, store: store, storage: storage}
}

// ProductFromCatalog picks one price of a catalog product.
func ProductFromCatalog(p stripeapp.Product, price stripeapp.PriceOption) Product {
	interval := price.Interval
	if interval == "" {
		interval = "one_time"
	}
	count := price.IntervalCount
	if count == 0 {
		count = 1
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceID:     price.ID,
		Price:       price.UnitAmount,
		Currency:    price.Currency,
		Interval:    interval,
		Metadata:    map[string]string{"intervalCount": strconv.FormatInt(count, 10)},
	}
}

// SelectPlan stores the chosen plan and prefills shipping from the intake
// record when no address was entered on the checkout page yet.
func (f *Flow) SelectPlan(p Product) {
	f.store.SetSelectedProduct(&p)
	if f.store.State().ShippingAddress == nil {
		if addr, ok := intake.Load(f.storage).ShippingAddress(); ok {
			f.store.SetShippingAddress(addr)
		}
	}
}

// StartPayment creates the payment or setup intent for the selected plan.
func (f *Flow) StartPayment(ctx context.Context) (stripeapp.CreatePaymentIntentResponse, error) {
	st := f.store.State()
	if st.SelectedProduct == nil {
		return stripeapp.CreatePaymentIntentResponse{}, ErrNoProduct
	}
	p := st.SelectedProduct
	rec := intake.Load(f.storage)
	info := rec.PatientInfo()

	intervalCount := p.Metadata["intervalCount"]
	if intervalCount == "" {
		intervalCount = "1"
	}
	req := stripeapp.CreatePaymentIntentRequest{
		Amount:        p.Price,
		Currency:      p.Currency,
		ProductID:     p.ID,
		ProductName:   p.Name,
		PriceID:       p.PriceID,
		CustomerEmail: info.Email,
		CustomerName:  info.FullName(),
		Metadata: map[string]string{
			"intakeId":      rec.SubmittedIntakeID,
			"medication":    p.Metadata["medication"],
			"intervalCount": intervalCount,
		},
	}
	resp, err := f.api.CreatePaymentIntent(ctx, req)
	if err != nil {
		f.fail(err.Error())
		return resp, err
	}
	id := resp.PaymentIntentID
	if resp.Type == stripeapp.IntentTypeSubscriptionSetup {
		id = resp.SetupIntentID
	}
	f.store.SetPaymentIntentID(id)
	f.store.SetError("")
	f.store.SetCurrentStep(StepPayment)
	return resp, nil
}

// BeginConfirm marks the attempt as processing before the card is confirmed.
func (f *Flow) BeginConfirm() {
	f.store.SetError("")
	f.store.SetPaymentStatus(StatusProcessing)
}

// FinalizeSubscription creates the subscription once the setup intent
// succeeded. A RequiresAction response leaves the attempt processing.
func (f *Flow) FinalizeSubscription(ctx context.Context, customerID, paymentMethodID string) (stripeapp.CreateSubscriptionResponse, error) {
	st := f.store.State()
	if st.SelectedProduct == nil {
		return stripeapp.CreateSubscriptionResponse{}, ErrNoProduct
	}
	resp, err := f.api.CreateSubscription(ctx, stripeapp.CreateSubscriptionRequest{
		CustomerID:      customerID,
		PriceID:         st.SelectedProduct.PriceID,
		PaymentMethodID: paymentMethodID,
		ProductID:       st.SelectedProduct.ID,
		ProductName:     st.SelectedProduct.Name,
		Metadata:        map[string]string{"intakeId": intake.Load(f.storage).SubmittedIntakeID},
	})
	if err != nil {
		f.fail(err.Error())
		return resp, err
	}
	switch {
	case resp.Success:
		f.store.SetPaymentIntentID(resp.SubscriptionID)
	case resp.RequiresAction:
		f.store.SetPaymentStatus(StatusProcessing)
	default:
		f.fail(resp.Error)
	}
	return resp, nil
}

// Complete records a confirmed payment and moves to confirmation. The CRM
// notification is best-effort; the webhook reconciles the authoritative status.
func (f *Flow) Complete(ctx context.Context, paymentID string) {
	f.store.SetPaymentStatus(StatusSucceeded)
	f.store.SetCurrentStep(StepConfirmation)

	st := f.store.State()
	intakeID := intake.Load(f.storage).SubmittedIntakeID
	if intakeID == "" || st.SelectedProduct == nil {
		return
	}
	if _, err := f.api.PaymentSuccess(ctx, stripeapp.PaymentSuccessRequest{
		IntakeID:        intakeID,
		PaymentIntentID: paymentID,
		ProductName:     st.SelectedProduct.Name,
		Amount:          st.SelectedProduct.Price,
	}); err != nil {
		slog.Warn("payment success notification failed", "payment_id", paymentID, "err", err)
	}
}

// Fail marks the attempt failed with a message the page can show.
func (f *Flow) Fail(msg string) { f.fail(msg) }

func (f *Flow) fail(msg string) {
	if msg == "" {
		msg = "Payment could not be processed"
	}
	f.store.SetPaymentStatus(StatusFailed)
	f.store.SetError(msg)
}

// Finish ends the session after confirmation: the store is reset and
// intake data is wiped.
func (f *Flow) Finish() {
	f.store.Reset()
	intake.Wipe(f.storage)
}
