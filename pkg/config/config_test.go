package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromRepoFile(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "nbrb-rates", cfg.App.Name)
	assert.Equal(t, "https://www.nbrb.by/api/exrates", cfg.NBRB.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.NBRB.Timeout)
	assert.Equal(t, "rates_imported", cfg.Redis.Channel)
	assert.True(t, cfg.Postgres.Migrate)
	assert.Equal(t, "0 9 * * *", cfg.Scheduler.Spec)
	assert.True(t, cfg.Scheduler.RunOnStart)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.True(t, cfg.IsProduction())
}
