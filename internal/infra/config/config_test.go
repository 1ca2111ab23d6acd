package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DDNS_CONFIG_FILE", "")
	t.Setenv("DDNS_HEALTH_FILE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FILE", "")
	t.Setenv("ENVIRONMENT", "")

	cfg := Load()

	assert.Equal(t, "/etc/ddns-update/config.yaml", cfg.ConfigFile)
	assert.Equal(t, "/tmp/ddns-update.health", cfg.HealthFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.LogFile)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DDNS_CONFIG_FILE", "/opt/ddns/config.yaml")
	t.Setenv("DDNS_HEALTH_FILE", "/run/ddns.health")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FILE", "/var/log/ddns-update.log")
	t.Setenv("ENVIRONMENT", "Production")

	cfg := Load()

	assert.Equal(t, "/opt/ddns/config.yaml", cfg.ConfigFile)
	assert.Equal(t, "/run/ddns.health", cfg.HealthFile)
	assert.Equal(t, "debug", cfg.LogLevel, "level should be normalized to lower case")
	assert.Equal(t, "/var/log/ddns-update.log", cfg.LogFile)
	assert.Equal(t, "production", cfg.Environment)
}
