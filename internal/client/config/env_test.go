package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_VariablesOverride(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Chdir(t.TempDir())

	t.Setenv(EnvAPIBaseURL, "http://env.local/api")
	t.Setenv(EnvRequestTimeout, "4s")
	t.Setenv(EnvCredentialBackend, "REDIS")
	t.Setenv(EnvRedisDB, "2")
	t.Setenv(EnvPageLimit, "30")
	t.Setenv(EnvLogLevel, "debug")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "http://env.local/api", cfg.APIBaseURL)
	assert.Equal(t, 4*time.Second, cfg.RequestTimeout)
	assert.Equal(t, BackendRedis, cfg.CredentialBackend)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30, cfg.PageLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseEnv_DotenvFileFromFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	envPath := filepath.Join(dir, "console.env")
	require.NoError(t, os.WriteFile(envPath, []byte("ADMIN_DATA_DIR=/var/lib/console\nADMIN_PURGE_SCHEDULE=\"0 */5 * * * *\"\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvDataDir)
		_ = os.Unsetenv(EnvPurgeSchedule)
	})

	os.Args = []string{"testbin", "-env", envPath}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "/var/lib/console", cfg.DataDir)
	assert.Equal(t, "0 */5 * * * *", cfg.PurgeSchedule)
}

func TestParseEnv_MissingDefaultDotenvIsIgnored(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Chdir(t.TempDir())

	cfg := &Config{}
	require.NotPanics(t, func() { parseEnv(cfg) })
}

func TestParseEnv_BadValuesPanic(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Chdir(t.TempDir())

	t.Setenv(EnvPageLimit, "lots")
	require.Panics(t, func() { parseEnv(&Config{}) })
}

func TestParseEnv_MissingExplicitDotenvPanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-env", filepath.Join(t.TempDir(), "absent.env")}

	require.Panics(t, func() { parseEnv(&Config{}) })
}
