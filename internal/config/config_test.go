package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	assert.Equal(t, DefaultFetchMinIntervalMs, cfg.FetchConfig.MinIntervalMs)
	assert.Equal(t, DefaultFetchMaxRetries, cfg.FetchConfig.MaxRetries)
	assert.Equal(t, []string{".js", ".json", ".liquid"}, cfg.DiffConfig.AllowedExtensions)
	assert.Equal(t, DefaultProgressEveryFiles, cfg.DiffConfig.ProgressEveryFiles)
	assert.Equal(t, DefaultServerPort, cfg.ServerConfig.Port)
	assert.Equal(t, DefaultLogLevel, cfg.LogConfig.LogLevel)
}

func TestLoadGlobalConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
store_config:
  base_url: "https://store.example.com"
  shop: "demo-shop"
  access_token: "tok-123"
fetch_config:
  min_interval_ms: 250
  max_retries: 2
diff_config:
  allowed_extensions: [".liquid"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://store.example.com", cfg.StoreConfig.BaseURL)
	assert.Equal(t, "demo-shop", cfg.StoreConfig.Shop)
	assert.Equal(t, 250, cfg.FetchConfig.MinIntervalMs)
	assert.Equal(t, 2, cfg.FetchConfig.MaxRetries)
	assert.Equal(t, []string{".liquid"}, cfg.DiffConfig.AllowedExtensions)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultServerPort, cfg.ServerConfig.Port)
}

func TestLoadGlobalConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"server_config": {"port": 9000}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.ServerConfig.Port)
}

func TestLoadGlobalConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultFetchMinIntervalMs, cfg.FetchConfig.MinIntervalMs)
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store_config: ["), 0o644))

	_, err := LoadGlobalConfig(path)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GlobalConfig)
		wantErr bool
	}{
		{"defaults are valid", func(cfg *GlobalConfig) {}, false},
		{"bad log level", func(cfg *GlobalConfig) { cfg.LogConfig.LogLevel = "verbose" }, true},
		{"bad log format", func(cfg *GlobalConfig) { cfg.LogConfig.LogFormat = "xml" }, true},
		{"bad base url", func(cfg *GlobalConfig) { cfg.StoreConfig.BaseURL = "not a url" }, true},
		{"negative interval", func(cfg *GlobalConfig) { cfg.FetchConfig.MinIntervalMs = -1 }, true},
		{"extension without dot", func(cfg *GlobalConfig) { cfg.DiffConfig.AllowedExtensions = []string{"liquid"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
