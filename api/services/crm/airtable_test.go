package crm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/tbeaudouin05/otmens-intake/api/config"
)

func newTestAirtable(t *testing.T, h http.HandlerFunc) Recorder {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewAirtable(config.Airtable{
		PAT:       "pat_test",
		BaseID:    "appBase",
		TableName: "Intake Submissions",
		APIURL:    srv.URL,
	})
}

func TestNewAirtable_DisabledIsNoop(t *testing.T) {
	rec := NewAirtable(config.Airtable{BaseID: "appBase"})
	assert.IsType(t, Noop{}, rec)
	assert.NoError(t, rec.RecordPayment(context.Background(), PaymentUpdate{IntakeID: "rec1"}))
}

func TestAirtable_RecordPayment(t *testing.T) {
	var gotPath, gotAuth, gotMethod string
	var got map[string]map[string]any
	rec := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"rec1"}`))
	})

	err := rec.RecordPayment(context.Background(), PaymentUpdate{
		IntakeID:        "rec1",
		Status:          StatusPaid,
		PaymentIntentID: "pi_1",
		Amount:          39900,
		Currency:        "usd",
		ProductName:     "Tirzepatide",
		PaidAt:          time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/v0/appBase/Intake%20Submissions/rec1", gotPath)
	assert.Equal(t, "Bearer pat_test", gotAuth)
	fields := got["fields"]
	assert.Equal(t, "Paid", fields["Payment Status"])
	assert.Equal(t, "pi_1", fields["Payment Intent ID"])
	assert.Equal(t, 399.0, fields["Order Amount"])
	assert.Equal(t, "Tirzepatide", fields["Selected Product"])
	assert.Equal(t, "2026-01-02T03:04:05Z", fields["Payment Date"])
}

func TestAirtable_SkipsEmptyIntakeID(t *testing.T) {
	called := false
	rec := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	require.NoError(t, rec.RecordPayment(context.Background(), PaymentUpdate{PaymentIntentID: "pi_1"}))
	assert.False(t, called)
}

func TestAirtable_Non2xxIsError(t *testing.T) {
	rec := newTestAirtable(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"INVALID_RECORD"}`))
	})
	err := rec.RecordPayment(context.Background(), PaymentUpdate{IntakeID: "rec1", Status: StatusFailed})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "INVALID_RECORD")
}
