package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test; t.Setenv restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	unsetEnv(t, "APP_ENV", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "PORT", "GRPC_PORT", "AIRTABLE_TABLE_NAME")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "50051", cfg.GRPCPort)
	assert.Equal(t, "Intake Submissions", cfg.Airtable.TableName)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadConfig_RejectsNonPositiveRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "0")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestOrigins_ProductionExcludesLocalhost(t *testing.T) {
	cfg := &Config{Environment: "production", AppURL: "https://app.example.com/", AllowedOrigins: []string{" https://extra.example.com ", ""}}
	origins := cfg.Origins()
	assert.Contains(t, origins, "https://otmenshealth.com")
	assert.Contains(t, origins, "https://app.example.com")
	assert.Contains(t, origins, "https://extra.example.com")
	assert.NotContains(t, origins, "http://localhost:3000")
}

func TestOrigins_DevelopmentAddsLocalhost(t *testing.T) {
	cfg := &Config{Environment: "Development"}
	assert.Contains(t, cfg.Origins(), "http://localhost:3000")
}

func TestAirtableEnabled(t *testing.T) {
	assert.False(t, Airtable{PAT: "pat"}.Enabled())
	assert.True(t, Airtable{PAT: "pat", BaseID: "app123"}.Enabled())
}

func TestLoadCatalog_DefaultsWhenNoPath(t *testing.T) {
	cat, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), cat)
}

func TestLoadCatalog_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	body := "product_id: prod_test\nprice_order:\n  - price_a\n  - price_b\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "prod_test", cat.ProductID)
	assert.Equal(t, []string{"price_a", "price_b"}, cat.PriceOrder)
	assert.Equal(t, DefaultCatalog().FallbackImage, cat.FallbackImage)
}

func TestLoadCatalog_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("product_id: [unterminated"), 0o600))
	_, err := LoadCatalog(path)
	assert.Error(t, err)
}
