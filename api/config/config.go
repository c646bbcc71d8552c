package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// AppConfig holds the global application configuration
var AppConfig *Config

// Config holds the application configuration
type Config struct {
	// Environment is "development" locally; anything else is treated as production.
	Environment string `env:"APP_ENV" envDefault:"production"`

	// Optional. Postgres URL, or sqlite://path for local runs.
	DatabaseURL string `env:"DATABASE_URL"`

	// Not required at load time: handlers report the missing key per request.
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`

	Airtable Airtable

	// Public origin of the intake frontend, always allowed by CORS.
	AppURL         string   `env:"APP_URL"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"60"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	CatalogFile string `env:"CATALOG_FILE"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Optional: base URL for running remote HTTP integration tests (e.g., https://api.example.com)
	IntegrationBaseURL string `env:"INTEGRATION_BASE_URL"`

	// Server ports
	HTTPPort string `env:"PORT" envDefault:"8080"`
	GRPCPort string `env:"GRPC_PORT" envDefault:"50051"`
}

// Airtable holds the CRM credentials. Sync is skipped when PAT or base id is empty.
type Airtable struct {
	PAT       string `env:"AIRTABLE_PAT"`
	BaseID    string `env:"AIRTABLE_BASE_ID"`
	TableName string `env:"AIRTABLE_TABLE_NAME" envDefault:"Intake Submissions"`
	APIURL    string `env:"AIRTABLE_API_URL" envDefault:"https://api.airtable.com"`
}

// Enabled reports whether enough configuration is present to call Airtable.
func (a Airtable) Enabled() bool { return a.PAT != "" && a.BaseID != "" }

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file from current directory and parent directories
	currentDir, _ := os.Getwd()
	for currentDir != "/" && currentDir != "." {
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("failed to load .env file: %v", err)
			}
			break
		}
		currentDir = filepath.Dir(currentDir)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.RateLimitMax <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", cfg.RateLimitWindow)
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs in local development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// Origins returns the CORS allow-list: built-in production origins, the
// configured app URL and extra origins, plus localhost in development.
func (c *Config) Origins() []string {
	origins := make([]string, 0, len(productionOrigins)+len(c.AllowedOrigins)+4)
	origins = append(origins, productionOrigins...)
	if c.AppURL != "" {
		origins = append(origins, strings.TrimRight(c.AppURL, "/"))
	}
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, strings.TrimRight(o, "/"))
		}
	}
	if c.IsDevelopment() {
		origins = append(origins, developmentOrigins...)
	}
	return origins
}
