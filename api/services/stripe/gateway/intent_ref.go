package gateway

import stripe "github.com/stripe/stripe-go/v79"

// IntentRef is an invoice's payment intent as the API hands it back: either
// a bare id (not expanded) or the full object. The zero value is "none".
type IntentRef struct {
	id     string
	intent *stripe.PaymentIntent
}

// Unresolved refers to an intent by id only.
func Unresolved(id string) IntentRef { return IntentRef{id: id} }

// Resolved wraps a fully populated intent.
func Resolved(pi *stripe.PaymentIntent) IntentRef {
	if pi == nil {
		return IntentRef{}
	}
	return IntentRef{id: pi.ID, intent: pi}
}

// RefFromInvoice classifies the payment intent attached to inv. The SDK
// decodes an unexpanded id into an object with only ID set, so an intent
// without a status or client secret is treated as unresolved.
func RefFromInvoice(inv *stripe.Invoice) IntentRef {
	if inv == nil || inv.PaymentIntent == nil || inv.PaymentIntent.ID == "" {
		return IntentRef{}
	}
	pi := inv.PaymentIntent
	if pi.Status == "" && pi.ClientSecret == "" {
		return Unresolved(pi.ID)
	}
	return Resolved(pi)
}

func (r IntentRef) ID() string { return r.id }

// Empty reports whether there is no intent at all.
func (r IntentRef) Empty() bool { return r.id == "" }

// Resolved returns the full intent, or false when only the id is known.
func (r IntentRef) Resolved() (*stripe.PaymentIntent, bool) {
	return r.intent, r.intent != nil
}
