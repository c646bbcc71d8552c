package app

import (
	"context"
	"time"

	config "github.com/tbeaudouin05/otmens-intake/api/config"
	"github.com/tbeaudouin05/otmens-intake/api/services/crm"
	stripedb "github.com/tbeaudouin05/otmens-intake/api/services/stripe/db"
	gw "github.com/tbeaudouin05/otmens-intake/api/services/stripe/gateway"
	"github.com/tbeaudouin05/otmens-intake/pkg/audit"
)

// Service defines the checkout operations backed by Stripe.
type Service interface {
	CreatePaymentIntent(ctx context.Context, req CreatePaymentIntentRequest) (CreatePaymentIntentResponse, error)
	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (CreateSubscriptionResponse, error)
	GetProduct(ctx context.Context) (Product, error)
	ValidatePromo(ctx context.Context, code string) PromoResult
	RecordPaymentSuccess(ctx context.Context, req PaymentSuccessRequest) (PaymentSuccessResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	PaymentStatus(ctx context.Context, paymentIntentID string) (PaymentStatusResponse, error)
}

// Ledger dedupes webhook deliveries and stores their outcome.
type Ledger interface {
	MarkEventProcessed(eventID, eventType string) (bool, error)
	ForgetEvent(eventID string) error
	UpsertPaymentRecord(rec stripedb.PaymentRecord) error
	GetPaymentRecord(paymentIntentID string) (stripedb.PaymentRecord, bool, error)
}

type dbLedger struct{}

// DatabaseLedger is the Ledger backed by the shared database connection.
func DatabaseLedger() Ledger { return dbLedger{} }

func (dbLedger) MarkEventProcessed(eventID, eventType string) (bool, error) {
	return stripedb.MarkEventProcessed(eventID, eventType)
}
func (dbLedger) ForgetEvent(eventID string) error { return stripedb.ForgetEvent(eventID) }
func (dbLedger) UpsertPaymentRecord(rec stripedb.PaymentRecord) error {
	return stripedb.UpsertPaymentRecord(rec)
}
func (dbLedger) GetPaymentRecord(paymentIntentID string) (stripedb.PaymentRecord, bool, error) {
	return stripedb.GetPaymentRecord(paymentIntentID)
}

type serviceImpl struct {
	gw            gw.StripeGateway
	crm           crm.Recorder
	catalog       config.Catalog
	webhookSecret string
	ledger        Ledger
	audit         *audit.Logger
	now           func() time.Time
}

type Option func(*serviceImpl)

func WithCRM(r crm.Recorder) Option { return func(s *serviceImpl) { s.crm = r } }

func WithCatalog(c config.Catalog) Option { return func(s *serviceImpl) { s.catalog = c } }

func WithWebhookSecret(secret string) Option {
	return func(s *serviceImpl) { s.webhookSecret = secret }
}

// WithLedger enables webhook dedupe and payment records. Nil disables them.
func WithLedger(l Ledger) Option { return func(s *serviceImpl) { s.ledger = l } }

func WithAudit(l *audit.Logger) Option { return func(s *serviceImpl) { s.audit = l } }

func WithClock(now func() time.Time) Option { return func(s *serviceImpl) { s.now = now } }

// NewService wires the checkout service. A nil gateway is allowed: operations
// that need Stripe then fail with a configuration error.
func NewService(g gw.StripeGateway, opts ...Option) Service {
	s := &serviceImpl{
		gw:      g,
		crm:     crm.Noop{},
		catalog: config.DefaultCatalog(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *serviceImpl) requireGateway() error {
	if s.gw == nil {
		return configError("Stripe is not configured")
	}
	return nil
}

func (s *serviceImpl) logAudit(t audit.EventType, f audit.Fields) {
	if s.audit != nil {
		s.audit.Log(t, f)
	}
}
