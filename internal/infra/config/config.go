package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds process-level configuration for the client. Everything
// domain-related (accounts, provider endpoint, schedule) lives in the YAML
// configuration file instead; only its location is decided here.
type AppConfig struct {
	ConfigFile  string
	HealthFile  string
	LogLevel    string
	LogFile     string // empty means log to stdout only
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() *AppConfig {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.ConfigFile = os.Getenv("DDNS_CONFIG_FILE")
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = "/etc/ddns-update/config.yaml"
	}

	cfg.HealthFile = os.Getenv("DDNS_HEALTH_FILE")
	if cfg.HealthFile == "" {
		cfg.HealthFile = "/tmp/ddns-update.health"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.LogFile = os.Getenv("LOG_FILE")

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg
}
