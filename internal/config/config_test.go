package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Purchase.SingleRegularPurchase)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"server": {"host": "127.0.0.1", "port": 9000},
		"purchase": {"single_regular_purchase": true},
		"seed_data": true
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Purchase.SingleRegularPurchase)
	assert.True(t, cfg.SeedData)
	// Untouched sections keep their defaults.
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database": {"host": "from-file"}}`), 0o644))

	t.Setenv("DB_HOST", "from-env")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("SINGLE_REGULAR_PURCHASE", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.True(t, cfg.Purchase.SingleRegularPurchase)
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "app",
		Password: "secret",
		DBName:   "flashmart",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=flashmart sslmode=disable", cfg.GetDSN())
}
