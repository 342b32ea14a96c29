package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Bounded wait for storage contention; operations hitting the limit fail
	// busy and may be retried by the caller.
	DBLockTimeout      time.Duration
	DBStatementTimeout time.Duration

	// RateLimit uses the limiter formatted syntax, e.g. "100-M".
	RateLimit string

	// AllowedOrigins is the CORS origin list ("*" allows all).
	AllowedOrigins []string

	// NormalizeOnStartup runs the ledger repair pass before serving.
	NormalizeOnStartup bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("DB_LOCK_TIMEOUT", "3s")
	viper.SetDefault("DB_STATEMENT_TIMEOUT", "10s")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("NORMALIZE_ON_STARTUP", true)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL environment variable not set")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	lockTimeout, err := time.ParseDuration(viper.GetString("DB_LOCK_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_LOCK_TIMEOUT: %w", err)
	}
	cfg.DBLockTimeout = lockTimeout

	stmtTimeout, err := time.ParseDuration(viper.GetString("DB_STATEMENT_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_STATEMENT_TIMEOUT: %w", err)
	}
	cfg.DBStatementTimeout = stmtTimeout

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.AllowedOrigins = viper.GetStringSlice("ALLOWED_ORIGINS")
	cfg.NormalizeOnStartup = viper.GetBool("NORMALIZE_ON_STARTUP")

	return cfg, nil
}
