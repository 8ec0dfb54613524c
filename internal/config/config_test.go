package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ROIC_HTTP_ADDR", ":1234")
	t.Setenv("ROIC_WORKERS", "3")
	t.Setenv("ROIC_WATCH_INTERVAL", "2s")
	t.Setenv("ROIC_LOG_LEVEL", "debug")

	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 2*time.Second, cfg.WatchInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.GRPCAddr)
}

func TestLoadDotEnv(t *testing.T) {
	// register cleanup, then clear so the .env value is picked up
	t.Setenv("ROIC_MAX_SIMULATIONS", "")
	require.NoError(t, os.Unsetenv("ROIC_MAX_SIMULATIONS"))

	env := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(env, []byte("ROIC_MAX_SIMULATIONS=500\n"), 0o644))

	cfg, err := Load("", env)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.MaxSimulations)
}

func TestLoadRequestLimits(t *testing.T) {
	t.Setenv("ROIC_MAX_YEARS", "30")
	t.Setenv("ROIC_MAX_POINTS", "200")

	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.MaxYears)
	assert.Equal(t, 200, cfg.MaxPoints)
	assert.Equal(t, 100_000, cfg.MaxSimulations)
}

func TestLoadConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "roic.yaml")
	require.NoError(t, os.WriteFile(file, []byte("grpc_addr: \":7000\"\nwatch_interval: 250ms\nprofiles_dir: /srv/profiles\n"), 0o644))
	t.Setenv("ROIC_GRPC_ADDR", ":7001")

	cfg, err := Load(file, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, ":7001", cfg.GRPCAddr, "environment beats the file")
	assert.Equal(t, 250*time.Millisecond, cfg.WatchInterval)
	assert.Equal(t, "/srv/profiles", cfg.ProfilesDir)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnvFile(t))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Workers = 0
	cfg.MaxSimulations = 0
	cfg.MaxYears = 0
	cfg.MaxPoints = -1
	cfg.LogLevel = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"workers", "max_simulations", "max_years", "max_points", "log_level"} {
		assert.Contains(t, err.Error(), want)
	}
	require.NoError(t, Defaults().Validate())
}
