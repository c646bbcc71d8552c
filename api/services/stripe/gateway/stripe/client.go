package stripegw

import (
	"context"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/coupon"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/paymentmethod"
	"github.com/stripe/stripe-go/v79/price"
	"github.com/stripe/stripe-go/v79/product"
	"github.com/stripe/stripe-go/v79/promotioncode"
	"github.com/stripe/stripe-go/v79/setupintent"
	"github.com/stripe/stripe-go/v79/subscription"

	gw "github.com/tbeaudouin05/otmens-intake/api/services/stripe/gateway"
)

// SetKey configures the Stripe SDK key once during bootstrap.
func SetKey(key string) { stripe.Key = key }

// client is the Stripe SDK-backed implementation of the gateway.
type client struct{}

// New returns a StripeGateway backed by the official Stripe SDK.
func New() gw.StripeGateway { return client{} }

func (client) GetPrice(ctx context.Context, id string) (stripe.Price, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx
	p, err := price.Get(id, params)
	if err != nil {
		return stripe.Price{}, err
	}
	if p == nil {
		return stripe.Price{}, nil
	}
	return *p, nil
}

func (client) ListActivePrices(ctx context.Context, productID string) ([]stripe.Price, error) {
	params := &stripe.PriceListParams{
		Product: stripe.String(productID),
		Active:  stripe.Bool(true),
	}
	params.Context = ctx
	var out []stripe.Price
	it := price.List(params)
	for it.Next() {
		out = append(out, *it.Price())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (client) GetProduct(ctx context.Context, id string) (stripe.Product, error) {
	params := &stripe.ProductParams{}
	params.Context = ctx
	p, err := product.Get(id, params)
	if err != nil {
		return stripe.Product{}, err
	}
	if p == nil {
		return stripe.Product{}, nil
	}
	return *p, nil
}

func (client) FindCustomerByEmail(ctx context.Context, email string) (stripe.Customer, bool, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Limit = stripe.Int64(1)
	params.Context = ctx
	it := customer.List(params)
	if it.Next() {
		return *it.Customer(), true, nil
	}
	if err := it.Err(); err != nil {
		return stripe.Customer{}, false, err
	}
	return stripe.Customer{}, false, nil
}

func (client) CreateCustomer(ctx context.Context, in gw.CustomerInput) (stripe.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if in.Email != "" {
		params.Email = stripe.String(in.Email)
	}
	if in.Name != "" {
		params.Name = stripe.String(in.Name)
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	c, err := customer.New(params)
	if err != nil {
		return stripe.Customer{}, err
	}
	return *c, nil
}

func (client) UpdateCustomerName(ctx context.Context, id, name string) (stripe.Customer, error) {
	params := &stripe.CustomerParams{Name: stripe.String(name)}
	params.Context = ctx
	c, err := customer.Update(id, params)
	if err != nil {
		return stripe.Customer{}, err
	}
	return *c, nil
}

func (client) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error {
	params := &stripe.PaymentMethodAttachParams{Customer: stripe.String(customerID)}
	params.Context = ctx
	_, err := paymentmethod.Attach(paymentMethodID, params)
	return err
}

func (client) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	params.Context = ctx
	_, err := customer.Update(customerID, params)
	return err
}

func (client) CreatePaymentIntent(ctx context.Context, in gw.PaymentIntentInput) (stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(in.Currency),
		Customer: stripe.String(in.CustomerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if in.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(in.ReceiptEmail)
	}
	if in.Description != "" {
		params.Description = stripe.String(in.Description)
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return stripe.PaymentIntent{}, err
	}
	return *pi, nil
}

func (client) CreateSetupIntent(ctx context.Context, in gw.SetupIntentInput) (stripe.SetupIntent, error) {
	params := &stripe.SetupIntentParams{
		Customer: stripe.String(in.CustomerID),
		Usage:    stripe.String(string(stripe.SetupIntentUsageOffSession)),
		AutomaticPaymentMethods: &stripe.SetupIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	si, err := setupintent.New(params)
	if err != nil {
		return stripe.SetupIntent{}, err
	}
	return *si, nil
}

func (client) CreateSubscription(ctx context.Context, in gw.SubscriptionInput) (gw.SubscriptionResult, error) {
	params := &stripe.SubscriptionParams{
		Customer:             stripe.String(in.CustomerID),
		Items:                []*stripe.SubscriptionItemsParams{{Price: stripe.String(in.PriceID)}},
		DefaultPaymentMethod: stripe.String(in.PaymentMethodID),
		PaymentBehavior:      stripe.String("allow_incomplete"),
	}
	params.Context = ctx
	params.AddExpand("latest_invoice.payment_intent")
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	sub, err := subscription.New(params)
	if err != nil {
		return gw.SubscriptionResult{}, err
	}

	pi, err := resolveIntent(gw.RefFromInvoice(sub.LatestInvoice), func(id string) (*stripe.PaymentIntent, error) {
		p := &stripe.PaymentIntentParams{}
		p.Context = ctx
		return paymentintent.Get(id, p)
	})
	if err != nil {
		return gw.SubscriptionResult{}, err
	}
	return gw.SubscriptionResult{
		ID:            sub.ID,
		Status:        sub.Status,
		CustomerID:    in.CustomerID,
		PaymentIntent: pi,
	}, nil
}

// resolveIntent turns an IntentRef into a full intent, fetching it when the
// invoice only carried the id. An empty ref resolves to nil.
func resolveIntent(ref gw.IntentRef, fetch func(id string) (*stripe.PaymentIntent, error)) (*stripe.PaymentIntent, error) {
	if ref.Empty() {
		return nil, nil
	}
	if pi, ok := ref.Resolved(); ok {
		return pi, nil
	}
	return fetch(ref.ID())
}

func (client) FindPromotionCode(ctx context.Context, code string) (stripe.PromotionCode, bool, error) {
	params := &stripe.PromotionCodeListParams{
		Code:   stripe.String(code),
		Active: stripe.Bool(true),
	}
	params.Limit = stripe.Int64(1)
	params.Context = ctx
	params.AddExpand("data.coupon")
	it := promotioncode.List(params)
	if it.Next() {
		return *it.PromotionCode(), true, nil
	}
	if err := it.Err(); err != nil {
		return stripe.PromotionCode{}, false, err
	}
	return stripe.PromotionCode{}, false, nil
}

func (client) GetCoupon(ctx context.Context, id string) (stripe.Coupon, error) {
	params := &stripe.CouponParams{}
	params.Context = ctx
	c, err := coupon.Get(id, params)
	if err != nil {
		return stripe.Coupon{}, err
	}
	return *c, nil
}
