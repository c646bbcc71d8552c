package bootstrap

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tbeaudouin05/otmens-intake/api/config"
	"github.com/tbeaudouin05/otmens-intake/api/database"
	"github.com/tbeaudouin05/otmens-intake/api/ratelimit"
	"github.com/tbeaudouin05/otmens-intake/api/services/crm"
	stripeapp "github.com/tbeaudouin05/otmens-intake/api/services/stripe/app"
	gw "github.com/tbeaudouin05/otmens-intake/api/services/stripe/gateway"
	stripegw "github.com/tbeaudouin05/otmens-intake/api/services/stripe/gateway/stripe"
	"github.com/tbeaudouin05/otmens-intake/pkg/audit"
)

var (
	stripeService    stripeapp.Service
	stripeConfigured bool
	auditSink        audit.Sink
	auditLogger      *audit.Logger
	limiter          *ratelimit.Limiter
	memoryStore      *ratelimit.MemoryStore
)

var initOnce sync.Once
var initErr error

// Init initializes config, database, and third-party clients, and wires services.
func Init() error {
	// If a service has already been injected (e.g., tests), do not override or init heavy deps.
	if stripeService != nil {
		return nil
	}
	var err error
	if config.AppConfig == nil {
		config.AppConfig, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg := config.AppConfig
	NewLogger(cfg)

	if err := database.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	db := database.GetDB()

	catalog, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if db != nil {
		auditSink = audit.MultiSink{audit.SlogSink{}, audit.SQLSink{DB: db}}
		limiter = ratelimit.New(ratelimit.SQLStore{DB: db}, cfg.RateLimitMax, cfg.RateLimitWindow)
	} else {
		slog.Warn("DATABASE_URL not set: webhook dedupe disabled, rate limits are per instance")
		auditSink = audit.SlogSink{}
		memoryStore = ratelimit.NewMemoryStore()
		limiter = ratelimit.New(memoryStore, cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	auditLogger = audit.NewLogger(auditSink)

	var gateway gw.StripeGateway
	if cfg.StripeSecretKey != "" {
		stripegw.SetKey(cfg.StripeSecretKey)
		gateway = stripegw.New()
		stripeConfigured = true
	} else {
		slog.Error("STRIPE_SECRET_KEY is not configured; checkout endpoints will fail")
	}

	opts := []stripeapp.Option{
		stripeapp.WithCatalog(catalog),
		stripeapp.WithWebhookSecret(cfg.StripeWebhookSecret),
		stripeapp.WithCRM(crm.NewAirtable(cfg.Airtable)),
		stripeapp.WithAudit(auditLogger),
	}
	if db != nil {
		opts = append(opts, stripeapp.WithLedger(stripeapp.DatabaseLedger()))
	}
	stripeService = stripeapp.NewService(gateway, opts...)
	return nil
}

func GetStripeService() stripeapp.Service { return stripeService }

// SetStripeService allows tests to inject a stub implementation.
func SetStripeService(s stripeapp.Service) { stripeService = s }

// StripeConfigured reports whether a Stripe secret key was provided.
func StripeConfigured() bool { return stripeConfigured }

func GetAuditSink() audit.Sink { return auditSink }

// GetAuditLogger returns the server-side audit logger. Callers flush it on shutdown.
func GetAuditLogger() *audit.Logger { return auditLogger }

func GetLimiter() *ratelimit.Limiter { return limiter }

// GetMemoryStore returns the in-process rate limit store, or nil when the SQL store is used.
func GetMemoryStore() *ratelimit.MemoryStore { return memoryStore }

// Ensure runs Init() once per process and returns any initialization error.
func Ensure() error {
	initOnce.Do(func() {
		initErr = Init()
	})
	return initErr
}
