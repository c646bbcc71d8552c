package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	stripe "github.com/stripe/stripe-go/v79"
)

func TestRefFromInvoice(t *testing.T) {
	ref := RefFromInvoice(nil)
	assert.True(t, ref.Empty())

	ref = RefFromInvoice(&stripe.Invoice{})
	assert.True(t, ref.Empty())

	ref = RefFromInvoice(&stripe.Invoice{PaymentIntent: &stripe.PaymentIntent{ID: "pi_1"}})
	assert.False(t, ref.Empty())
	assert.Equal(t, "pi_1", ref.ID())
	_, ok := ref.Resolved()
	assert.False(t, ok)

	full := &stripe.PaymentIntent{ID: "pi_2", Status: stripe.PaymentIntentStatusRequiresAction, ClientSecret: "pi_2_secret"}
	ref = RefFromInvoice(&stripe.Invoice{PaymentIntent: full})
	pi, ok := ref.Resolved()
	assert.True(t, ok)
	assert.Equal(t, "pi_2_secret", pi.ClientSecret)
	assert.Equal(t, "pi_2", ref.ID())
}

func TestResolvedNil(t *testing.T) {
	assert.True(t, Resolved(nil).Empty())
}
