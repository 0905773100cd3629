package config

// StorageConfig defines configuration for comparison record persistence
type StorageConfig struct {
	SQLiteDBPath string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		SQLiteDBPath: DefaultStorageSQLitePath,
	}
}
