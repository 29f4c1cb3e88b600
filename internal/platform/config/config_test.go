package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(envFrom(nil))
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, StoreMemory, cfg.LogStore)
	require.Equal(t, 60*time.Second, cfg.RefreshInterval)
	require.Equal(t, 120*time.Second, cfg.SnapshotMaxAge)
	require.Equal(t, 120, cfg.RateLimitPerMinute)
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfg, err := load(envFrom(map[string]string{
		"PORT":                     "9090",
		"LOG_STORE":                "Postgres",
		"DB_DSN":                   "postgres://u:p@localhost:5432/pets?sslmode=disable",
		"DB_MIGRATE":               "true",
		"RANKING_REFRESH_INTERVAL": "30s",
		"RANKING_SNAPSHOT_MAX_AGE": "0s",
		"RATE_LIMIT_PER_MINUTE":    "0",
	}))
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, StorePostgres, cfg.LogStore)
	require.True(t, cfg.DBMigrate)
	require.Equal(t, 30*time.Second, cfg.RefreshInterval)
	require.Equal(t, time.Duration(0), cfg.SnapshotMaxAge)
	require.Equal(t, 0, cfg.RateLimitPerMinute)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_store: rest
log_store_url: https://store.example.com/rest/v1
log_store_api_key: from-file
log_store_timeout: 3s
refresh_interval: 90s
`), 0o600))

	cfg, err := load(envFrom(map[string]string{
		"CONFIG_FILE":       path,
		"LOG_STORE_API_KEY": "from-env",
	}))
	require.NoError(t, err)
	require.Equal(t, StoreREST, cfg.LogStore)
	require.Equal(t, "from-env", cfg.StoreAPIKey)
	require.Equal(t, 3*time.Second, cfg.StoreTimeout)
	require.Equal(t, 90*time.Second, cfg.RefreshInterval)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"postgres without dsn": {"LOG_STORE": "postgres"},
		"rest without url":     {"LOG_STORE": "rest", "LOG_STORE_API_KEY": "k"},
		"unknown store":        {"LOG_STORE": "mongo"},
		"bad duration":         {"RANKING_REFRESH_INTERVAL": "soon"},
		"interval too short":   {"RANKING_REFRESH_INTERVAL": "100ms"},
		"bad int":              {"RATE_LIMIT_PER_MINUTE": "many"},
		"bad port":             {"PORT": "http"},
		"bad log level":        {"LOG_LEVEL": "loud"},
		"bad log format":       {"LOG_FORMAT": "xml"},
		"missing file":         {"CONFIG_FILE": "/does/not/exist.yaml"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(envFrom(env))
			require.Error(t, err)
		})
	}
}
