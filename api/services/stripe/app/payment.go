package app

import (
	"context"
	"log/slog"
	"strings"

	stripe "github.com/stripe/stripe-go/v79"
	gw "github.com/tbeaudouin05/otmens-intake/api/services/stripe/gateway"
)

// CreatePaymentIntent resolves the customer and, depending on whether the
// price recurs, creates a payment intent or a setup intent. Subscriptions
// are only created later by CreateSubscription.
func (s *serviceImpl) CreatePaymentIntent(ctx context.Context, req CreatePaymentIntentRequest) (CreatePaymentIntentResponse, error) {
	if req.PriceID == "" {
		return CreatePaymentIntentResponse{}, validationError("Price ID is required")
	}
	if err := s.requireGateway(); err != nil {
		return CreatePaymentIntentResponse{}, err
	}

	price, err := s.gw.GetPrice(ctx, req.PriceID)
	if err != nil {
		return CreatePaymentIntentResponse{}, gatewayError("retrieve price", err)
	}

	cust, err := s.resolveCustomer(ctx, req)
	if err != nil {
		return CreatePaymentIntentResponse{}, err
	}

	meta := withMetadata(map[string]string{
		"productId":   req.ProductID,
		"productName": req.ProductName,
		"priceId":     req.PriceID,
	}, req.Metadata)

	if price.Recurring != nil {
		si, err := s.gw.CreateSetupIntent(ctx, gw.SetupIntentInput{CustomerID: cust.ID, Metadata: meta})
		if err != nil {
			return CreatePaymentIntentResponse{}, gatewayError("create setup intent", err)
		}
		slog.Info("setup intent created", "setup_intent_id", si.ID, "customer_id", cust.ID, "price_id", req.PriceID)
		return CreatePaymentIntentResponse{
			ClientSecret:  si.ClientSecret,
			SetupIntentID: si.ID,
			CustomerID:    cust.ID,
			Type:          IntentTypeSubscriptionSetup,
		}, nil
	}

	amount := price.UnitAmount
	if amount == 0 {
		amount = req.Amount
	}
	if amount <= 0 {
		return CreatePaymentIntentResponse{}, validationError("Amount is required")
	}
	currency := string(price.Currency)
	if currency == "" {
		currency = strings.ToLower(req.Currency)
	}
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	pi, err := s.gw.CreatePaymentIntent(ctx, gw.PaymentIntentInput{
		Amount:       amount,
		Currency:     currency,
		CustomerID:   cust.ID,
		ReceiptEmail: req.CustomerEmail,
		Description:  "Order for " + req.ProductName,
		Metadata:     meta,
	})
	if err != nil {
		return CreatePaymentIntentResponse{}, gatewayError("create payment intent", err)
	}
	slog.Info("payment intent created", "payment_intent_id", pi.ID, "customer_id", cust.ID, "amount", amount)
	return CreatePaymentIntentResponse{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
		CustomerID:      cust.ID,
		Type:            IntentTypePayment,
	}, nil
}

// resolveCustomer matches an existing customer by email, updating the name
// when it changed, or creates a new one.
func (s *serviceImpl) resolveCustomer(ctx context.Context, req CreatePaymentIntentRequest) (stripe.Customer, error) {
	meta := withMetadata(nil, req.Metadata)

	if req.CustomerEmail == "" {
		name := req.CustomerName
		if name == "" {
			name = "Guest"
		}
		c, err := s.gw.CreateCustomer(ctx, gw.CustomerInput{Name: name, Metadata: meta})
		if err != nil {
			return stripe.Customer{}, gatewayError("create customer", err)
		}
		return c, nil
	}

	existing, found, err := s.gw.FindCustomerByEmail(ctx, req.CustomerEmail)
	if err != nil {
		return stripe.Customer{}, gatewayError("list customers", err)
	}
	if !found {
		c, err := s.gw.CreateCustomer(ctx, gw.CustomerInput{Email: req.CustomerEmail, Name: req.CustomerName, Metadata: meta})
		if err != nil {
			return stripe.Customer{}, gatewayError("create customer", err)
		}
		return c, nil
	}
	if req.CustomerName != "" && existing.Name != req.CustomerName {
		updated, err := s.gw.UpdateCustomerName(ctx, existing.ID, req.CustomerName)
		if err != nil {
			return stripe.Customer{}, gatewayError("update customer", err)
		}
		return updated, nil
	}
	return existing, nil
}
