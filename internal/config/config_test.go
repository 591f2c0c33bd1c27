package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8501", cfg.Server.Port)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 6, cfg.DataSource.LookbackMonths)
	assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, 0, cfg.DataSource.RetryCount)
	assert.Equal(t, 14, cfg.Indicators.RSIWindow)
	assert.Equal(t, 12, cfg.Indicators.MACDFast)
	assert.Equal(t, 26, cfg.Indicators.MACDSlow)
	assert.Equal(t, "AAPL", cfg.Dashboard.DefaultSymbol1)
	assert.Equal(t, "MSFT", cfg.Dashboard.DefaultSymbol2)
	assert.Empty(t, cfg.Database.SQLitePath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: "9000"
data_source:
  base_url: http://bars.internal
  api_key: secret
  timeout: 5s
  retry_count: 2
dashboard:
  default_symbol1: TSLA
  default_symbol2: NVDA
database:
  sqlite_path: data/runs.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, "rest", cfg.DataSource.Provider)
	assert.Equal(t, "secret", cfg.DataSource.APIKey)
	assert.Equal(t, 5*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, 2, cfg.DataSource.RetryCount)
	assert.Equal(t, "TSLA", cfg.Dashboard.DefaultSymbol1)
	assert.Equal(t, "NVDA", cfg.Dashboard.DefaultSymbol2)
	assert.Equal(t, "data/runs.db", cfg.Database.SQLitePath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9000\"\n")
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("DATA_SOURCE_TIMEOUT", "12s")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 12*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "/tmp/x.db", cfg.Database.SQLitePath)
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load("../../configs/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvBaseURLSelectsREST(t *testing.T) {
	t.Setenv("DATA_SOURCE_BASE_URL", "http://bars.internal")
	t.Setenv("DATA_SOURCE_API_KEY", "secret")

	for _, path := range []string{
		"../../configs/config.yaml",
		writeConfig(t, "data_source:\n  provider: yahoo\n"),
	} {
		cfg, err := Load(path)
		require.NoError(t, err, path)
		assert.Equal(t, "rest", cfg.DataSource.Provider, path)
		assert.Equal(t, "http://bars.internal", cfg.DataSource.BaseURL, path)
		assert.Equal(t, "secret", cfg.DataSource.APIKey, path)
		assert.NoError(t, cfg.Validate(), path)
	}
}

func TestLoad_InvalidInput(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)

	t.Setenv("DATA_SOURCE_TIMEOUT", "soon")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg.DataSource.Provider = "bloomberg"
	assert.Error(t, cfg.Validate())

	cfg.DataSource.Provider = "rest"
	cfg.DataSource.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg.DataSource.Provider = "yahoo"
	cfg.DataSource.LookbackMonths = -1
	assert.ErrorContains(t, cfg.Validate(), "lookback_months must not be negative")

	cfg.DataSource.LookbackMonths = 6
	cfg.Indicators.MACDFast = 30
	assert.Error(t, cfg.Validate())
}
