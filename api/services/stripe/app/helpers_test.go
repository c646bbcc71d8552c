package app

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"testing"
	"time"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/tbeaudouin05/otmens-intake/api/services/crm"
	stripedb "github.com/tbeaudouin05/otmens-intake/api/services/stripe/db"
	gw "github.com/tbeaudouin05/otmens-intake/api/services/stripe/gateway"
)

// fakeGateway serves canned catalog and promo objects. Methods it does not
// override panic through the nil embedded interface.
type fakeGateway struct {
	gw.StripeGateway

	product    stripe.Product
	prices     []stripe.Price
	catalogErr error

	promos    map[string]stripe.PromotionCode
	coupons   map[string]stripe.Coupon
	promoErr  error
	lookups   []string
	couponGet int
}

func (f *fakeGateway) GetProduct(context.Context, string) (stripe.Product, error) {
	return f.product, f.catalogErr
}

func (f *fakeGateway) ListActivePrices(context.Context, string) ([]stripe.Price, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return append([]stripe.Price(nil), f.prices...), nil
}

func (f *fakeGateway) FindPromotionCode(_ context.Context, code string) (stripe.PromotionCode, bool, error) {
	f.lookups = append(f.lookups, code)
	if f.promoErr != nil {
		return stripe.PromotionCode{}, false, f.promoErr
	}
	p, ok := f.promos[code]
	return p, ok, nil
}

func (f *fakeGateway) GetCoupon(_ context.Context, id string) (stripe.Coupon, error) {
	f.couponGet++
	return f.coupons[id], nil
}

type recordingCRM struct {
	mu      sync.Mutex
	updates []crm.PaymentUpdate
	err     error
}

func (r *recordingCRM) RecordPayment(_ context.Context, u crm.PaymentUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
	return r.err
}

type memLedger struct {
	seen      map[string]bool
	records   map[string]stripedb.PaymentRecord
	forgotten []string
	markErr   error
	getErr    error
}

func newMemLedger() *memLedger {
	return &memLedger{seen: map[string]bool{}, records: map[string]stripedb.PaymentRecord{}}
}

func (l *memLedger) MarkEventProcessed(id, _ string) (bool, error) {
	if l.markErr != nil {
		return false, l.markErr
	}
	if l.seen[id] {
		return false, nil
	}
	l.seen[id] = true
	return true, nil
}

func (l *memLedger) ForgetEvent(id string) error {
	delete(l.seen, id)
	l.forgotten = append(l.forgotten, id)
	return nil
}

func (l *memLedger) UpsertPaymentRecord(rec stripedb.PaymentRecord) error {
	l.records[rec.PaymentIntentID] = rec
	return nil
}

func (l *memLedger) GetPaymentRecord(id string) (stripedb.PaymentRecord, bool, error) {
	if l.getErr != nil {
		return stripedb.PaymentRecord{}, false, l.getErr
	}
	rec, ok := l.records[id]
	return rec, ok, nil
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

// signPayload builds a Stripe-Signature header for payload.
func signPayload(t *testing.T, payload []byte, secret string) string {
	t.Helper()
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func monthlyPrice(id string, count, amount int64) stripe.Price {
	return stripe.Price{
		ID:         id,
		UnitAmount: amount,
		Currency:   stripe.CurrencyUSD,
		Recurring: &stripe.PriceRecurring{
			Interval:      stripe.PriceRecurringIntervalMonth,
			IntervalCount: count,
		},
	}
}
