package config

import (
	"log"
	"strings"
	"time"
)

const (
	// ProdDbId is the identifier for the production database
	ProdDbId = "otmens-prod"

	// MetadataSource tags every customer, intent and subscription created by this service.
	MetadataSource = "otmens-intake"

	// SessionTimeout is how long an idle intake session keeps PHI in client storage.
	SessionTimeout = 30 * time.Minute

	// SessionWarning is how long before SessionTimeout the user is warned.
	SessionWarning = 5 * time.Minute
)

var productionOrigins = []string{
	"https://otmens-intake.vercel.app",
	"https://otmens-intakes.vercel.app",
	"https://www.otmenshealth.com",
	"https://otmenshealth.com",
	"https://checkout.otmenshealth.com",
}

var developmentOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://127.0.0.1:3000",
}

// CheckNotProdDB aborts immediately if the configured database URL contains ProdDbId.
// This should be called at the start of any test that interacts with a remote database.
func CheckNotProdDB() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DatabaseURL is not configured")
	}
	if strings.Contains(cfg.DatabaseURL, ProdDbId) {
		log.Fatalf("Tests aborted: DatabaseURL contains production identifier %s", ProdDbId)
	}
}
