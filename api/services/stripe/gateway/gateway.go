package gateway

import (
	"context"

	stripe "github.com/stripe/stripe-go/v79"
)

//go:generate mockgen -destination=mock/gateway_mock.go -package=mockgw github.com/tbeaudouin05/otmens-intake/api/services/stripe/gateway StripeGateway

// StripeGateway abstracts Stripe SDK operations needed by the app layer.
// Methods return values (not pointers) to respect the project's preference
// to avoid pointer types in public interfaces.
type StripeGateway interface {
	GetPrice(ctx context.Context, id string) (stripe.Price, error)
	ListActivePrices(ctx context.Context, productID string) ([]stripe.Price, error)
	GetProduct(ctx context.Context, id string) (stripe.Product, error)

	// FindCustomerByEmail returns the first customer with email, if any.
	FindCustomerByEmail(ctx context.Context, email string) (stripe.Customer, bool, error)
	CreateCustomer(ctx context.Context, in CustomerInput) (stripe.Customer, error)
	UpdateCustomerName(ctx context.Context, id, name string) (stripe.Customer, error)

	AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error

	CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (stripe.PaymentIntent, error)
	CreateSetupIntent(ctx context.Context, in SetupIntentInput) (stripe.SetupIntent, error)
	CreateSubscription(ctx context.Context, in SubscriptionInput) (SubscriptionResult, error)

	// FindPromotionCode returns the active promotion code matching code exactly.
	FindPromotionCode(ctx context.Context, code string) (stripe.PromotionCode, bool, error)
	GetCoupon(ctx context.Context, id string) (stripe.Coupon, error)
}

type CustomerInput struct {
	Email    string
	Name     string
	Metadata map[string]string
}

type PaymentIntentInput struct {
	Amount       int64
	Currency     string
	CustomerID   string
	ReceiptEmail string
	Description  string
	Metadata     map[string]string
}

type SetupIntentInput struct {
	CustomerID string
	Metadata   map[string]string
}

type SubscriptionInput struct {
	CustomerID      string
	PriceID         string
	PaymentMethodID string
	Metadata        map[string]string
}

// SubscriptionResult is a created subscription with its first invoice's
// payment intent already resolved.
type SubscriptionResult struct {
	ID         string
	Status     stripe.SubscriptionStatus
	CustomerID string
	// PaymentIntent is nil when the invoice carries no intent.
	PaymentIntent *stripe.PaymentIntent
}
