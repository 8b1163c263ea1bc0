package config

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/sowforge/sowforge/internal/gcp"
)

// Config is the bootstrap configuration read from the environment. Everything
// else (buckets, models, prompts) lives in the global settings document in
// Firestore and can be edited live.
type Config struct {
	ProjectID string
	Port      string

	// CredentialsSecret names the Secret Manager secret holding the
	// service-account key for local development. Unused on Cloud Run.
	CredentialsSecret string
}

// Load reads the bootstrap configuration. A .env file is honored for local
// development only; Cloud Run supplies real environment variables.
func Load() (*Config, error) {
	if !gcp.RunningOnCloudRun() {
		_ = godotenv.Load()
	}

	cfg := &Config{
		ProjectID:         gcp.GetEnv("GCP_PROJECT_ID", gcp.GetEnv("GCLOUD_PROJECT", "")),
		Port:              gcp.GetEnv("PORT", "8080"),
		CredentialsSecret: gcp.GetEnv("CREDENTIALS_SECRET", ""),
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("GCP_PROJECT_ID environment variable must be set")
	}

	return cfg, nil
}
