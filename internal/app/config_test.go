package app

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the test and restores it afterwards. envconfig
// treats an empty value as set, so t.Setenv(key, "") would skip defaults.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, ok := os.LookupEnv(key)
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() {
		if ok {
			_ = os.Setenv(key, prev)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"APP_ENV", "APP_ADDR", "APP_TIMEZONE", "STORE_DRIVER", "MONGODB_DATABASE", "SWEEP_CRON", "APP_REQUEST_TIMEOUT"} {
		unsetEnv(t, key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.AppAddr)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, "salesData", cfg.MongoDatabase)
	assert.Equal(t, "5 0 * * *", cfg.SweepCron)
	assert.Equal(t, 30*time.Second, cfg.AppRequestTimeout)
	assert.False(t, cfg.IsProduction())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", " Mongo ")
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")
	t.Setenv("SWEEP_CRON", "0 1 * * *")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, "0 1 * * *", cfg.SweepCron)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestLoadConfigRejectsUnknownTimezone(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "APP_TIMEZONE")
}

func TestRequireSecrets(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireSecrets())

	cfg.CSRFSecret = "secret"
	assert.NoError(t, cfg.RequireSecrets())
}

func TestNilConfigHelpers(t *testing.T) {
	var cfg *Config
	assert.False(t, cfg.IsProduction())
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
