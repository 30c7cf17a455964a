package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "remote", cfg.App.VersionSource)
	assert.Equal(t, []string{"fleet-navigator", "chaining"}, cfg.Purge.Prefixes)
	assert.Equal(t, []string{"fleet-navigator-chat-cache", "fleet-navigator-selected-model"}, cfg.Purge.Keep)
	assert.Zero(t, cfg.Remote.Timeout.Duration)
	assert.Empty(t, cfg.Sync.RefreshCron)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	data := []byte(`
app:
  version: "2.1.0"
  version_source: build
remote:
  base_url: http://backend:9000
  timeout: 3s
sync:
  refresh_cron: "*/5 * * * *"
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2.1.0", cfg.App.Version)
	assert.Equal(t, "build", cfg.App.VersionSource)
	assert.Equal(t, "http://backend:9000", cfg.Remote.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout.Duration)
	assert.Equal(t, "*/5 * * * *", cfg.Sync.RefreshCron)
	// untouched sections keep their defaults
	assert.Equal(t, "fleet-navigator.db", cfg.Storage.Path)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("FLEET_REMOTE_URL", "http://env:1234")
	t.Setenv("FLEET_APP_VERSION", "9.9.9")
	t.Setenv("PORT", "8088")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://env:1234", cfg.Remote.BaseURL)
	assert.Equal(t, "9.9.9", cfg.App.Version)
	assert.Equal(t, ":8088", cfg.GetServerAddress())
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("remote:\n  timeout: soon\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidVersionSource(t *testing.T) {
	t.Setenv("FLEET_VERSION_SOURCE", "guess")

	_, err := Load("")
	assert.EqualError(t, err, `app.version_source must be 'remote' or 'build', got "guess"`)
}

func TestGetServerAddress_HostPort(t *testing.T) {
	cfg := Default()
	cfg.Backend.Port = "127.0.0.1:7000"
	assert.Equal(t, "127.0.0.1:7000", cfg.GetServerAddress())
}
