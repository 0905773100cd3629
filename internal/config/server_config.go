package config

// ServerConfig defines configuration for the HTTP surface
type ServerConfig struct {
	Port int `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
}

// NewDefaultServerConfig creates default server configuration
func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port: DefaultServerPort,
	}
}
