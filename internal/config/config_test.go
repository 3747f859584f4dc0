package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadReturnsDefaults(t *testing.T) {
	os.Unsetenv("NEWSENSE_MARKETAUX_TOKEN")
	os.Unsetenv("MARKETAUX_API_TOKEN")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "newsense.db", cfg.Store.Path)
	require.Equal(t, "", cfg.Marketaux.Token)
	require.Equal(t, 20, cfg.Marketaux.Limit)
	require.Equal(t, 2*time.Hour, cfg.Sweep.Interval)
	require.Equal(t, 1, cfg.Sweep.SourceParallel)
	require.Equal(t, 10, cfg.Sweep.FeedLimit)
	require.Equal(t, "0.0.0.0", cfg.API.Host)
	require.Equal(t, 8080, cfg.API.Port)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "text", cfg.Logging.Format)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NEWSENSE_STORE_PATH", "/tmp/other.db")
	t.Setenv("NEWSENSE_MARKETAUX_TOKEN", "secret-token-value")
	t.Setenv("NEWSENSE_SWEEP_INTERVAL", "30m")
	t.Setenv("NEWSENSE_LOGGING_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "/tmp/other.db", cfg.Store.Path)
	require.Equal(t, "secret-token-value", cfg.Marketaux.Token)
	require.Equal(t, 30*time.Minute, cfg.Sweep.Interval)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestLegacyTokenEnv(t *testing.T) {
	os.Unsetenv("NEWSENSE_MARKETAUX_TOKEN")
	t.Setenv("MARKETAUX_API_TOKEN", "legacy-token")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "legacy-token", cfg.Marketaux.Token)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
store:
  path: /data/news.db
sweep:
  interval: 1h
  feed_limit: 5
api:
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	require.Equal(t, "/data/news.db", cfg.Store.Path)
	require.Equal(t, time.Hour, cfg.Sweep.Interval)
	require.Equal(t, 5, cfg.Sweep.FeedLimit)
	require.Equal(t, 9090, cfg.API.Port)
	// Untouched sections keep their defaults.
	require.Equal(t, 20, cfg.Marketaux.Limit)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestCheckAPIKeys(t *testing.T) {
	os.Unsetenv("NEWSENSE_MARKETAUX_TOKEN")

	unset := CheckAPIKeys(&Config{})
	require.Len(t, unset, 1)
	require.False(t, unset[0].IsSet)
	require.Equal(t, KeySourceNone, unset[0].Source)

	cfg := &Config{}
	cfg.Marketaux.Token = "mtx-1234567890-abc"
	set := CheckAPIKeys(cfg)
	require.True(t, set[0].IsSet)
	require.Equal(t, KeySourceConfig, set[0].Source)
	require.Equal(t, "mtx...abc", set[0].Masked)
}
