package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_source:
  base_url: https://history.example.com
  api_key: secret
log:
  file: /var/log/tv.log
  debug: true
ledger:
  sqlite_path: /tmp/ledger.db
proxy: http://proxy:8080
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://history.example.com", cfg.DataSource.BaseURL)
	assert.Equal(t, "secret", cfg.DataSource.APIKey)
	assert.Equal(t, "/var/log/tv.log", cfg.Log.File)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, "/tmp/ledger.db", cfg.Ledger.SQLitePath)
	assert.Equal(t, "http://proxy:8080", cfg.Proxy)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "tickervault.log", cfg.Log.File)
	assert.Equal(t, "data/runs.db", cfg.Ledger.SQLitePath)
	assert.Empty(t, cfg.DataSource.BaseURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  file: from-file.log\n"), 0644))

	t.Setenv("TICKERVAULT_LOG", "from-env.log")
	t.Setenv("TICKERVAULT_BASE_URL", "https://env.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.log", cfg.Log.File)
	assert.Equal(t, "https://env.example.com", cfg.DataSource.BaseURL)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())

	cfg.DataSource.APIKey = "key-without-url"
	assert.Error(t, cfg.Validate())

	cfg.DataSource.BaseURL = "https://history.example.com"
	assert.NoError(t, cfg.Validate())
}
