package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stripeapp "github.com/tbeaudouin05/otmens-intake/api/services/stripe/app"
	"github.com/tbeaudouin05/otmens-intake/pkg/intake"
)

type fakeAPI struct {
	piReq   stripeapp.CreatePaymentIntentRequest
	piResp  stripeapp.CreatePaymentIntentResponse
	piErr   error
	subReq  stripeapp.CreateSubscriptionRequest
	subResp stripeapp.CreateSubscriptionResponse
	success []stripeapp.PaymentSuccessRequest
	succErr error
}

func (f *fakeAPI) CreatePaymentIntent(_ context.Context, req stripeapp.CreatePaymentIntentRequest) (stripeapp.CreatePaymentIntentResponse, error) {
	f.piReq = req
	return f.piResp, f.piErr
}

func (f *fakeAPI) CreateSubscription(_ context.Context, req stripeapp.CreateSubscriptionRequest) (stripeapp.CreateSubscriptionResponse, error) {
	f.subReq = req
	return f.subResp, nil
}

func (f *fakeAPI) PaymentSuccess(_ context.Context, req stripeapp.PaymentSuccessRequest) (stripeapp.PaymentSuccessResponse, error) {
	f.success = append(f.success, req)
	return stripeapp.PaymentSuccessResponse{Success: true}, f.succErr
}

func seededStorage(t *testing.T) intake.Storage {
	t.Helper()
	s := intake.NewMemoryStorage()
	rec := intake.New()
	rec.Name = intake.Name{FirstName: "Ana", LastName: "Diaz"}
	rec.Contact = intake.Contact{Email: "ana@example.com"}
	rec.Address = intake.ShippingAddress{Street: "1 Main St", City: "Tampa", State: "FL", ZipCode: "33601"}
	rec.SubmittedIntakeID = "recINTAKE"
	require.NoError(t, intake.Save(s, rec))
	return s
}

func TestProductFromCatalog(t *testing.T) {
	prod := stripeapp.Product{ID: "prod_1", Name: "Tirzepatide"}
	p := ProductFromCatalog(prod, stripeapp.PriceOption{ID: "price_6", UnitAmount: 191400, Currency: "usd", Interval: "month", IntervalCount: 6})
	assert.Equal(t, "price_6", p.PriceID)
	assert.Equal(t, int64(191400), p.Price)
	assert.Equal(t, "6", p.Metadata["intervalCount"])

	once := ProductFromCatalog(prod, stripeapp.PriceOption{ID: "price_once"})
	assert.Equal(t, "one_time", once.Interval)
	assert.Equal(t, "1", once.Metadata["intervalCount"])
}

func TestFlow_OneTimePayment(t *testing.T) {
	storage := seededStorage(t)
	store := NewStore(storage)
	api := &fakeAPI{piResp: stripeapp.CreatePaymentIntentResponse{ClientSecret: "pi_1_secret", PaymentIntentID: "pi_1", Type: stripeapp.IntentTypePayment}}
	f := NewFlow(api, store, storage)

	f.SelectPlan(monthly)
	require.NotNil(t, store.State().ShippingAddress, "address prefilled from intake")
	assert.Equal(t, "1 Main St", store.State().ShippingAddress.Street)

	resp, err := f.StartPayment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", resp.ClientSecret)
	assert.Equal(t, "ana@example.com", api.piReq.CustomerEmail)
	assert.Equal(t, "Ana Diaz", api.piReq.CustomerName)
	assert.Equal(t, "price_monthly", api.piReq.PriceID)
	assert.Equal(t, "recINTAKE", api.piReq.Metadata["intakeId"])
	assert.Equal(t, "1", api.piReq.Metadata["intervalCount"])
	assert.Equal(t, "pi_1", store.State().PaymentIntentID)
	assert.Equal(t, StepPayment, store.State().CurrentStep)

	f.BeginConfirm()
	assert.Equal(t, StatusProcessing, store.State().PaymentStatus)

	f.Complete(context.Background(), "pi_1")
	assert.Equal(t, StatusSucceeded, store.State().PaymentStatus)
	assert.Equal(t, StepConfirmation, store.State().CurrentStep)
	require.Len(t, api.success, 1)
	assert.Equal(t, stripeapp.PaymentSuccessRequest{IntakeID: "recINTAKE", PaymentIntentID: "pi_1", ProductName: "Tirzepatide", Amount: 39900}, api.success[0])

	f.Finish()
	assert.Equal(t, initialState(), store.State())
	_, ok := storage.Get(intake.RecordKey)
	assert.False(t, ok)
}

func TestFlow_StartPaymentWithoutProduct(t *testing.T) {
	storage := intake.NewMemoryStorage()
	f := NewFlow(&fakeAPI{}, NewStore(storage), storage)
	_, err := f.StartPayment(context.Background())
	assert.ErrorIs(t, err, ErrNoProduct)
}

func TestFlow_StartPaymentError(t *testing.T) {
	storage := seededStorage(t)
	store := NewStore(storage)
	f := NewFlow(&fakeAPI{piErr: assert.AnError}, store, storage)
	f.SelectPlan(monthly)

	_, err := f.StartPayment(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusFailed, store.State().PaymentStatus)
	assert.NotEmpty(t, store.State().Error)
}

func TestFlow_SubscriptionOutcomes(t *testing.T) {
	cases := []struct {
		name       string
		resp       stripeapp.CreateSubscriptionResponse
		wantStatus PaymentStatus
		wantErr    string
	}{
		{"active", stripeapp.CreateSubscriptionResponse{SubscriptionID: "sub_1", Success: true}, StatusProcessing, ""},
		{"requires action", stripeapp.CreateSubscriptionResponse{SubscriptionID: "sub_1", RequiresAction: true, ClientSecret: "pi_secret"}, StatusProcessing, ""},
		{"declined", stripeapp.CreateSubscriptionResponse{Error: "Payment could not be processed"}, StatusFailed, "Payment could not be processed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storage := seededStorage(t)
			store := NewStore(storage)
			api := &fakeAPI{
				piResp:  stripeapp.CreatePaymentIntentResponse{ClientSecret: "seti_secret", SetupIntentID: "seti_1", CustomerID: "cus_1", Type: stripeapp.IntentTypeSubscriptionSetup},
				subResp: tc.resp,
			}
			f := NewFlow(api, store, storage)
			f.SelectPlan(monthly)
			_, err := f.StartPayment(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "seti_1", store.State().PaymentIntentID)

			f.BeginConfirm()
			_, err = f.FinalizeSubscription(context.Background(), "cus_1", "pm_1")
			require.NoError(t, err)
			assert.Equal(t, "price_monthly", api.subReq.PriceID)
			assert.Equal(t, "pm_1", api.subReq.PaymentMethodID)
			assert.Equal(t, tc.wantStatus, store.State().PaymentStatus)
			assert.Equal(t, tc.wantErr, store.State().Error)
		})
	}
}

func TestFlow_CompleteSwallowsNotificationError(t *testing.T) {
	storage := seededStorage(t)
	store := NewStore(storage)
	api := &fakeAPI{succErr: assert.AnError}
	f := NewFlow(api, store, storage)
	f.SelectPlan(monthly)

	f.Complete(context.Background(), "pi_1")
	assert.Equal(t, StatusSucceeded, store.State().PaymentStatus)
	assert.Len(t, api.success, 1)
}

func TestFlow_CompleteWithoutIntakeSkipsNotification(t *testing.T) {
	storage := intake.NewMemoryStorage()
	api := &fakeAPI{}
	f := NewFlow(api, NewStore(storage), storage)
	f.SelectPlan(monthly)
	f.Complete(context.Background(), "pi_1")
	assert.Empty(t, api.success)
}
