package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	app, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, defaults(), app)
}

func TestLoad_FileThenEnv(t *testing.T) {
	// GIVEN: A YAML file overriding some keys and env overriding one of them
	// THEN: Env wins over file, file wins over defaults

	path := filepath.Join(t.TempDir(), "forecast.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
server:
  port: 9000
engine:
  workers: 4
output:
  format: xlsx
  sqlite: runs.db
`), 0o600))

	t.Setenv("FORECAST_SERVER_PORT", "9100")
	t.Setenv("FORECAST_SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("FORECAST_OUTPUT_PATH", "out/ledger.xlsx")

	app, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", app.LogLevel)
	assert.Equal(t, 9100, app.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, app.Server.AllowedOrigins)
	assert.Equal(t, 4, app.Engine.Workers)
	assert.Equal(t, "xlsx", app.Output.Format)
	assert.Equal(t, "out/ledger.xlsx", app.Output.Path)
	assert.Equal(t, "runs.db", app.Output.SQLite)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [port"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "log_level", envKey("FORECAST_LOG_LEVEL"))
	assert.Equal(t, "server.allowed_origins", envKey("FORECAST_SERVER_ALLOWED_ORIGINS"))
	assert.Equal(t, "engine.workers", envKey("FORECAST_ENGINE_WORKERS"))
}

func TestApplyLogLevel(t *testing.T) {
	prev := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(prev) })

	require.NoError(t, Application{LogLevel: "warn"}.ApplyLogLevel())
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	assert.Error(t, Application{LogLevel: "loud"}.ApplyLogLevel())
}
