package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "commission_service", cfg.Database.Database)
	assert.Equal(t, "data/orders-30d.json", cfg.Shopify.SamplePath)
	assert.Equal(t, "env", cfg.Secrets.Backend)
	assert.Equal(t, "ap-southeast-2", cfg.Secrets.Region)
}

func TestLoadFromEnv_RequiresPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoadFromEnv_RejectsUnknownSecretBackend(t *testing.T) {
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("SECRETS_BACKEND", "vault")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRETS_BACKEND")
}

func TestDatabaseURL(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db.internal", Port: 5433, User: "svc", Password: "pw",
		Database: "commission_service", SSLMode: "require",
	}
	assert.Equal(t,
		"postgres://svc:pw@db.internal:5433/commission_service?sslmode=require",
		cfg.URL())
}
