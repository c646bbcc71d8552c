package app

type IntentType string

const (
	IntentTypePayment           IntentType = "payment"
	IntentTypeSubscriptionSetup IntentType = "subscription_setup"
)

// CreatePaymentIntentRequest starts a checkout attempt for one price.
// Amount and Currency are only used when the price omits them.
type CreatePaymentIntentRequest struct {
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	ProductID     string            `json:"productId"`
	ProductName   string            `json:"productName"`
	PriceID       string            `json:"priceId"`
	CustomerEmail string            `json:"customerEmail"`
	CustomerName  string            `json:"customerName"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// CreatePaymentIntentResponse carries the client secret of either a payment
// intent (Type payment) or a setup intent (Type subscription_setup).
type CreatePaymentIntentResponse struct {
	ClientSecret    string     `json:"clientSecret"`
	PaymentIntentID string     `json:"paymentIntentId,omitempty"`
	SetupIntentID   string     `json:"setupIntentId,omitempty"`
	CustomerID      string     `json:"customerId"`
	Type            IntentType `json:"type"`
}

// CreateSubscriptionRequest finalizes a subscription after its setup intent succeeded.
type CreateSubscriptionRequest struct {
	CustomerID      string            `json:"customerId"`
	PriceID         string            `json:"priceId"`
	PaymentMethodID string            `json:"paymentMethodId"`
	ProductID       string            `json:"productId,omitempty"`
	ProductName     string            `json:"productName,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

type CreateSubscriptionResponse struct {
	SubscriptionID string `json:"subscriptionId"`
	Status         string `json:"status"`
	CustomerID     string `json:"customerId"`
	Success        bool   `json:"success"`
	// ClientSecret is set with RequiresAction for a follow-up confirmation.
	ClientSecret   string `json:"clientSecret,omitempty"`
	RequiresAction bool   `json:"requiresAction,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Product is the display-ready catalog entry.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
	Prices      []PriceOption `json:"prices"`
}

// PriceOption is one billable variant of a product. Amounts are minor units.
type PriceOption struct {
	ID            string `json:"id"`
	UnitAmount    int64  `json:"unitAmount"`
	Currency      string `json:"currency"`
	Interval      string `json:"interval"`
	IntervalCount int64  `json:"intervalCount"`
	Nickname      string `json:"nickname,omitempty"`
	Label         string `json:"label"`
	DisplayAmount string `json:"displayAmount"`
	// MonthlyAmount is set when the price spans more than one month.
	MonthlyAmount int64 `json:"monthlyAmount,omitempty"`
	// SavingsPercent is relative to the monthly price and only set when positive.
	SavingsPercent int64 `json:"savingsPercent,omitempty"`
}

// PromoResult is always returned, valid or not.
type PromoResult struct {
	Valid           bool    `json:"valid"`
	Error           string  `json:"error,omitempty"`
	CouponID        string  `json:"couponId,omitempty"`
	PromotionCodeID string  `json:"promotionCodeId,omitempty"`
	PercentOff      float64 `json:"percentOff,omitempty"`
	AmountOff       int64   `json:"amountOff,omitempty"`
	Currency        string  `json:"currency,omitempty"`
	Name            string  `json:"name,omitempty"`
}

type PaymentSuccessRequest struct {
	IntakeID        string `json:"intakeId"`
	PaymentIntentID string `json:"paymentIntentId"`
	ProductName     string `json:"productName"`
	Amount          int64  `json:"amount"`
}

type PaymentSuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PaymentStatusResponse is the webhook-reconciled outcome of a payment.
// Found is false until the webhook for the intent has been processed.
type PaymentStatusResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	Found           bool   `json:"found"`
	Status          string `json:"status,omitempty"`
	IntakeID        string `json:"intakeId,omitempty"`
	Amount          int64  `json:"amount,omitempty"`
	Currency        string `json:"currency,omitempty"`
	UpdatedAt       int64  `json:"updatedAt,omitempty"`
}
