package app

import (
	"errors"
	"strings"

	stripe "github.com/stripe/stripe-go/v79"
	config "github.com/tbeaudouin05/otmens-intake/api/config"
)

// IsSubscriptionPaid reports whether a freshly created subscription needs no further payment step.
func IsSubscriptionPaid(status stripe.SubscriptionStatus) bool {
	return status == stripe.SubscriptionStatusActive || status == stripe.SubscriptionStatusTrialing
}

// isAlreadyAttached reports whether an attach error only says the payment
// method already belongs to a customer.
func isAlreadyAttached(err error) bool {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code == "resource_already_exists" {
		return true
	}
	msg := strings.ToLower(se.Msg)
	return strings.Contains(msg, "already been attached") || strings.Contains(msg, "already attached")
}

// withMetadata returns base plus the source tag, overridden by client-supplied entries.
func withMetadata(base, client map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(client)+1)
	for k, v := range base {
		out[k] = v
	}
	out["source"] = config.MetadataSource
	for k, v := range client {
		out[k] = v
	}
	return out
}
