package app

import (
	"context"
	"log/slog"

	stripe "github.com/stripe/stripe-go/v79"
	gw "github.com/tbeaudouin05/otmens-intake/api/services/stripe/gateway"
)

// CreateSubscription attaches the payment method collected by the setup
// intent, makes it the default and creates the subscription. Calling it
// twice with the same payment method does not fail on the attach step.
func (s *serviceImpl) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (CreateSubscriptionResponse, error) {
	if req.CustomerID == "" || req.PriceID == "" || req.PaymentMethodID == "" {
		return CreateSubscriptionResponse{}, validationError("customerId, priceId, and paymentMethodId are required")
	}
	if err := s.requireGateway(); err != nil {
		return CreateSubscriptionResponse{}, err
	}

	if err := s.gw.AttachPaymentMethod(ctx, req.PaymentMethodID, req.CustomerID); err != nil {
		if !isAlreadyAttached(err) {
			return CreateSubscriptionResponse{}, gatewayError("attach payment method", err)
		}
		slog.Info("payment method already attached", "customer_id", req.CustomerID, "payment_method_id", req.PaymentMethodID)
	}

	if err := s.gw.SetDefaultPaymentMethod(ctx, req.CustomerID, req.PaymentMethodID); err != nil {
		return CreateSubscriptionResponse{}, gatewayError("set default payment method", err)
	}

	sub, err := s.gw.CreateSubscription(ctx, gw.SubscriptionInput{
		CustomerID:      req.CustomerID,
		PriceID:         req.PriceID,
		PaymentMethodID: req.PaymentMethodID,
		Metadata: withMetadata(map[string]string{
			"productId":   req.ProductID,
			"productName": req.ProductName,
			"priceId":     req.PriceID,
		}, req.Metadata),
	})
	if err != nil {
		return CreateSubscriptionResponse{}, gatewayError("create subscription", err)
	}
	slog.Info("subscription created", "subscription_id", sub.ID, "status", sub.Status, "customer_id", req.CustomerID)

	resp := CreateSubscriptionResponse{
		SubscriptionID: sub.ID,
		Status:         string(sub.Status),
		CustomerID:     req.CustomerID,
	}
	switch {
	case IsSubscriptionPaid(sub.Status):
		resp.Success = true
	case sub.PaymentIntent == nil:
		slog.Warn("subscription has no payment intent to act on", "subscription_id", sub.ID, "status", sub.Status)
		resp.Error = "Payment could not be processed"
	case sub.PaymentIntent.Status == stripe.PaymentIntentStatusSucceeded:
		resp.Success = true
	default:
		resp.RequiresAction = true
		resp.ClientSecret = sub.PaymentIntent.ClientSecret
	}
	return resp, nil
}
