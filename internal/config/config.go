package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aleister1102/themediff/internal/common"
	"gopkg.in/yaml.v3"
)

const (
	// Store Defaults
	DefaultStoreTimeoutSecs = 20
	DefaultStoreAuthHeader  = "X-Access-Token"

	// Fetch Defaults
	DefaultFetchMinIntervalMs = 1000
	DefaultFetchMaxRetries    = 3

	// Diff Defaults
	DefaultProgressEveryFiles = 5

	// Server Defaults
	DefaultServerPort = 8321

	// Storage Defaults
	DefaultStorageSQLitePath = "database/comparisons.db"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3
)

// DefaultAllowedExtensions is the extension allow-list applied to the
// intersection before any content is fetched.
var DefaultAllowedExtensions = []string{".js", ".json", ".liquid"}

type GlobalConfig struct {
	DiffConfig    DiffConfig    `json:"diff_config,omitempty" yaml:"diff_config,omitempty"`
	FetchConfig   FetchConfig   `json:"fetch_config,omitempty" yaml:"fetch_config,omitempty"`
	LogConfig     LogConfig     `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	ServerConfig  ServerConfig  `json:"server_config,omitempty" yaml:"server_config,omitempty"`
	StorageConfig StorageConfig `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	StoreConfig   StoreConfig   `json:"store_config,omitempty" yaml:"store_config,omitempty"`
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		DiffConfig:    NewDefaultDiffConfig(),
		FetchConfig:   NewDefaultFetchConfig(),
		LogConfig:     NewDefaultLogConfig(),
		ServerConfig:  NewDefaultServerConfig(),
		StorageConfig: NewDefaultStorageConfig(),
		StoreConfig:   NewDefaultStoreConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath and supports both
// JSON and YAML formats. YAML is preferred if the extension is .yaml or .yml.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to read config file '%s'", filePath)
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if isYAMLFile(ext) {
		return parseYAMLConfig(data, filePath, cfg)
	}
	return parseJSONConfig(data, filePath, cfg)
}

// isYAMLFile checks if the file extension indicates a YAML file
func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

// parseYAMLConfig parses YAML configuration
func parseYAMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
	}
	return nil
}

// parseJSONConfig parses JSON configuration
func parseJSONConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
