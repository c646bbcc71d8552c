package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	bootstrap "github.com/tbeaudouin05/otmens-intake/api/bootstrap"
	config "github.com/tbeaudouin05/otmens-intake/api/config"
	"github.com/tbeaudouin05/otmens-intake/api/middleware"
	"github.com/tbeaudouin05/otmens-intake/api/ratelimit"
	stripeapp "github.com/tbeaudouin05/otmens-intake/api/services/stripe/app"
	"github.com/tbeaudouin05/otmens-intake/pkg/audit"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Stripe stripeapp.Service
	// AuditSink receives client audit batches. Nil falls back to slog.
	AuditSink audit.Sink
	// Limiter guards /api; nil disables rate limiting.
	Limiter        *ratelimit.Limiter
	Origins        []string
	AllowAnyOrigin bool
}

// NewRouter returns the central HTTP router wired from bootstrap.
func NewRouter() http.Handler {
	// Initialize app dependencies (non-fatal if it fails here; handlers re-check).
	if err := bootstrap.Ensure(); err != nil {
		slog.Error("bootstrap ensure failed", "err", err)
	}
	d := Deps{
		Stripe:    bootstrap.GetStripeService(),
		AuditSink: bootstrap.GetAuditSink(),
		Limiter:   bootstrap.GetLimiter(),
	}
	if cfg := config.AppConfig; cfg != nil {
		d.Origins = cfg.Origins()
		d.AllowAnyOrigin = cfg.IsDevelopment()
	}
	return New(d)
}

// New builds the router from explicit dependencies.
func New(d Deps) http.Handler {
	if d.AuditSink == nil {
		d.AuditSink = audit.SlogSink{}
	}
	h := handlers{stripe: d.Stripe, auditSink: d.AuditSink}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecurityHeaders)

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(d.Origins, d.AllowAnyOrigin))
		if d.Limiter != nil {
			r.Use(middleware.RateLimit(d.Limiter))
		}

		r.Route("/stripe", func(r chi.Router) {
			r.Post("/create-payment-intent", h.createPaymentIntent)
			r.Post("/create-subscription", h.createSubscription)
			r.Get("/products", h.products)
			r.Post("/validate-promo", h.validatePromo)
			r.Post("/payment-success", h.paymentSuccess)
			r.Get("/payment-status/{paymentIntentId}", h.paymentStatus)
			r.Post("/webhook", h.webhook)
		})
		r.Post("/audit", h.audit)
	})
	return r
}
