// Package config loads the reference demo server's configuration, grounded
// on the teacher's pkg/config and internal/platform/config packages:
// viper defaults layered under godotenv-loaded environment variables. Every
// setting here is ambient transport/storage wiring — company/pattern CRUD,
// auth and the interactive visualization stay external collaborators per
// SPEC_FULL.md §1, so the JWT/OAuth fields the teacher's config carries
// have no analogue here.
package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the reference demo server's configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	RateLimitFormat   string // e.g. "60-M" (ulule/limiter formatted rate)
	HeartbeatInterval time.Duration
}

// LoadConfig loads configuration from environment variables, preferring a
// local .env file if one is present (teacher convention: .env is optional,
// never required).
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT_FORMAT", "60-M")
	viper.SetDefault("HEARTBEAT_INTERVAL", "30s")
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set; the reference ResultSink will not persist runs.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimitFormat = viper.GetString("RATE_LIMIT_FORMAT")

	heartbeatStr := viper.GetString("HEARTBEAT_INTERVAL")
	heartbeat, err := time.ParseDuration(heartbeatStr)
	if err != nil {
		heartbeat = 30 * time.Second
		log.Printf("Warning: invalid HEARTBEAT_INTERVAL %q, defaulting to %s\n", heartbeatStr, heartbeat)
	}
	cfg.HeartbeatInterval = heartbeat

	return cfg, nil
}
