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

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, "yahoo", cfg.Provider.Name)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 365, cfg.Analysis.HistoryDays)
	assert.Equal(t, 20, cfg.Search.MaxResults)
	assert.Empty(t, cfg.Markets)
	assert.Empty(t, cfg.Indices)
	assert.Empty(t, cfg.IndexInstruments())
	assert.Empty(t, cfg.Trending.Symbols)
	assert.Equal(t, 8, cfg.Trending.Limit)
	assert.Equal(t, "memory", cfg.Watchlist.Backend)
	assert.Equal(t, "0 * * * * *", cfg.Schedule.SessionCron)
	assert.Equal(t, 5*time.Second, cfg.Stream.Interval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Recorder.SQLitePath)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
provider:
  name: mock
  timeout: 2s
markets:
  - id: India
    name: NSE/BSE
    timezone: Asia/Kolkata
    open: "09:15"
    close: "15:30"
watchlist:
  backend: sqlite
log:
  level: DEBUG
`)
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("PROVIDER_TIMEOUT", "750ms")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("SQLITE_PATH", "/tmp/sessions.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "mock", cfg.Provider.Name)
	assert.Equal(t, 100.0, cfg.Provider.MockPrice)
	assert.Equal(t, 750*time.Millisecond, cfg.Provider.Timeout)
	require.Len(t, cfg.Markets, 1)
	assert.Equal(t, "Asia/Kolkata", cfg.Markets[0].Timezone)
	assert.Equal(t, "data/watchlist.db", cfg.Watchlist.SQLitePath)
	assert.Equal(t, "/tmp/sessions.db", cfg.Recorder.SQLitePath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoad_BadInput(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)

	t.Setenv("PROVIDER_TIMEOUT", "soon")
	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "PROVIDER_TIMEOUT")
}

const validLists = `
markets:
  - {id: US, name: US, timezone: America/New_York, open: "09:30", close: "16:00"}
  - {id: UK, name: UK, timezone: Europe/London, open: "08:00", close: "16:30"}
indices:
  - {symbol: "^GSPC", name: "S&P 500"}
trending:
  symbols: [AAPL, MSFT]
`

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Provider.Name = "bloomberg" }},
		{"unknown backend", func(c *Config) { c.Watchlist.Backend = "etcd" }},
		{"redis without addr", func(c *Config) { c.Watchlist.Backend = "redis" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"market missing timezone", func(c *Config) { c.Markets[0].Timezone = "" }},
		{"duplicate market", func(c *Config) { c.Markets[1].ID = c.Markets[0].ID }},
		{"empty trending symbol", func(c *Config) { c.Trending.Symbols[0] = "" }},
		{"index missing name", func(c *Config) { c.Indices[0].Name = "" }},
		{"bad base url", func(c *Config) { c.Provider.BaseURL = "not a url" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validLists))
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv("CONFIG_PATH", "/etc/marketlens.yaml")
	assert.Equal(t, "/etc/marketlens.yaml", Path())
}
