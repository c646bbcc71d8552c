package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tbeaudouin05/otmens-intake/api/middleware"
	stripeapp "github.com/tbeaudouin05/otmens-intake/api/services/stripe/app"
	"github.com/tbeaudouin05/otmens-intake/pkg/audit"
)

const (
	maxBodyBytes     = 1 << 20
	maxAuditBatch    = 100
	stripeSigHeader  = "Stripe-Signature"
	notConfiguredMsg = "Stripe is not configured"
)

type handlers struct {
	stripe    stripeapp.Service
	auditSink audit.Sink
}

func (h handlers) requireStripe(w http.ResponseWriter) bool {
	if h.stripe == nil {
		slog.Error("stripe service not initialized")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: notConfiguredMsg})
		return false
	}
	return true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return false
	}
	return true
}

func (h handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h handlers) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	if !h.requireStripe(w) {
		return
	}
	var req stripeapp.CreatePaymentIntentRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.stripe.CreatePaymentIntent(r.Context(), req)
	if err != nil {
		writeError(w, err, "Failed to create payment")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h handlers) createSubscription(w http.ResponseWriter, r *http.Request) {
	if !h.requireStripe(w) {
		return
	}
	var req stripeapp.CreateSubscriptionRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.stripe.CreateSubscription(r.Context(), req)
	if err != nil {
		writeError(w, err, "Failed to create subscription")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type productsResponse struct {
	Success bool               `json:"success"`
	Product *stripeapp.Product `json:"product,omitempty"`
	Error   string             `json:"error,omitempty"`
}

func (h handlers) products(w http.ResponseWriter, r *http.Request) {
	if h.stripe == nil {
		writeJSON(w, http.StatusInternalServerError, productsResponse{Error: "Failed to fetch products"})
		return
	}
	prod, err := h.stripe.GetProduct(r.Context())
	if err != nil {
		slog.Error("error fetching products", "err", err)
		writeJSON(w, http.StatusInternalServerError, productsResponse{Error: "Failed to fetch products"})
		return
	}
	writeJSON(w, http.StatusOK, productsResponse{Success: true, Product: &prod})
}

func (h handlers) validatePromo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, stripeapp.PromoResult{Error: "Failed to validate code"})
		return
	}
	if h.stripe == nil {
		writeJSON(w, http.StatusOK, stripeapp.PromoResult{Error: "Failed to validate code"})
		return
	}
	writeJSON(w, http.StatusOK, h.stripe.ValidatePromo(r.Context(), req.Code))
}

func (h handlers) paymentSuccess(w http.ResponseWriter, r *http.Request) {
	if !h.requireStripe(w) {
		return
	}
	var req stripeapp.PaymentSuccessRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.stripe.RecordPaymentSuccess(r.Context(), req)
	if err != nil {
		writeError(w, err, "Failed to record payment")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h handlers) paymentStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireStripe(w) {
		return
	}
	resp, err := h.stripe.PaymentStatus(r.Context(), chi.URLParam(r, "paymentIntentId"))
	if err != nil {
		writeError(w, err, "Failed to load payment status")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h handlers) webhook(w http.ResponseWriter, r *http.Request) {
	if !h.requireStripe(w) {
		return
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}
	if err := h.stripe.HandleWebhook(r.Context(), payload, r.Header.Get(stripeSigHeader)); err != nil {
		writeError(w, err, "Webhook handler failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

type auditRequest struct {
	Events []audit.Event `json:"events"`
}

// audit accepts a batch of client events, stamping the caller's ip and user agent.
func (h handlers) audit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Events) > maxAuditBatch {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Too many events"})
		return
	}
	ip, ua := middleware.ClientIP(r), r.UserAgent()
	events := make([]audit.Event, 0, len(req.Events))
	for _, ev := range req.Events {
		if !ev.EventType.Known() {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "Unknown event type: " + string(ev.EventType)})
			return
		}
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		if ev.Timestamp.IsZero() {
			ev.Timestamp = time.Now().UTC()
		}
		ev.IPAddress, ev.UserAgent = ip, ua
		events = append(events, ev)
	}
	if len(events) > 0 {
		if err := h.auditSink.Write(r.Context(), events); err != nil {
			slog.Error("error writing audit batch", "count", len(events), "err", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to record audit events"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"received": len(events)})
}
