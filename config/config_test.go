package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()
	assert.Equal(t, DefaultDatabaseURL, cfg.Database.URL)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "development", cfg.Logger.Mode)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultAppConfig()
	applyEnv(cfg, envFrom(map[string]string{
		"DATABASE_URL":             "postgres://u:p@localhost:5432/sales",
		"SALES_WEB_PORT":           "9090",
		"SALES_LOGGER_FILE_ENABLE": "true",
		"SALES_DB_DEBUG":           "1",
	}))
	assert.Equal(t, "postgres://u:p@localhost:5432/sales", cfg.Database.URL)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.True(t, cfg.Logger.FileEnable)
	assert.True(t, cfg.Database.Debug)
}

func TestApplyEnvIgnoresBadValues(t *testing.T) {
	cfg := DefaultAppConfig()
	applyEnv(cfg, envFrom(map[string]string{
		"DATABASE_URL":   "   ",
		"SALES_WEB_PORT": "not-a-port",
		"SALES_DB_DEBUG": "maybe",
	}))
	assert.Equal(t, DefaultDatabaseURL, cfg.Database.URL)
	assert.Equal(t, 8000, cfg.Web.Port)
	assert.False(t, cfg.Database.Debug)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SALES_WEB_PORT", "")

	dir := t.TempDir()
	cfile := filepath.Join(dir, "salesledger.yml")
	content := []byte("web:\n  port: 8181\ndatabase:\n  url: sqlite:///" + filepath.Join(dir, "x.db") + "\n")
	require.NoError(t, os.WriteFile(cfile, content, 0o600))

	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Web.Port)
	assert.Equal(t, "sqlite:///"+filepath.Join(dir, "x.db"), cfg.Database.URL)
	// untouched sections keep defaults
	assert.Equal(t, "development", cfg.Logger.Mode)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDatabaseURL, cfg.Database.URL)
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(cfile, []byte("web: [unclosed"), 0o600))
	_, err := LoadConfig(cfile)
	require.Error(t, err)
}

func TestShutdownTimeoutFallback(t *testing.T) {
	cfg := DefaultAppConfig()
	assert.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout())

	cfg.Web.ShutdownTimeout = 3
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout())

	for _, v := range []int{0, -5} {
		cfg.Web.ShutdownTimeout = v
		assert.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout(), "timeout %d", v)
	}
}

func TestLoadConfigZeroShutdownTimeout(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "salesledger.yml")
	require.NoError(t, os.WriteFile(cfile, []byte("web:\n  shutdown_timeout: 0\n"), 0o600))
	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)
	assert.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout())
}

func TestResolvePath(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.System.Workdir = "/var/lib/sales"
	assert.Equal(t, "/var/lib/sales/salesledger.log", cfg.GetLogFile())
	assert.Equal(t, "/tmp/x.log", cfg.ResolvePath("/tmp/x.log"))

	cfg.System.Workdir = ""
	assert.Equal(t, "salesledger.log", cfg.GetLogFile())
}
