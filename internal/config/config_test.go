package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("STORAGE_QUOTA_BYTES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 5<<20, cfg.Storage.QuotaBytes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("DATA_DIR", "/tmp/lineups")
	t.Setenv("STORAGE_QUOTA_BYTES", "1024")
	t.Setenv("DB_HOST", "db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/lineups", cfg.Storage.DataDir)
	assert.Equal(t, 1024, cfg.Storage.QuotaBytes)
	assert.Contains(t, cfg.DSN(), "host=db ")
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("STORAGE_QUOTA_BYTES", "lots")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_QUOTA_BYTES")

	t.Setenv("STORAGE_QUOTA_BYTES", "")
	t.Setenv("STORAGE_DRIVER", "redis")
	_, err = Load()
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
