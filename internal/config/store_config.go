package config

// StoreConfig defines how the remote asset store is reached. Credentials
// are supplied externally (config file or environment), never derived here.
type StoreConfig struct {
	// BaseURL is the root of the remote asset store API.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	// Shop is the credential scope the store's rate limit applies to.
	Shop string `json:"shop,omitempty" yaml:"shop,omitempty"`
	// AccessToken authenticates every store call. Empty token means no
	// usable credentials and aborts a scan before any listing.
	AccessToken string `json:"access_token,omitempty" yaml:"access_token,omitempty"`
	// AuthHeader is the header name the token is sent under.
	AuthHeader  string `json:"auth_header,omitempty" yaml:"auth_header,omitempty"`
	TimeoutSecs int    `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1,max=300"`
	EnableHTTP2 bool   `json:"enable_http2" yaml:"enable_http2"`
}

// NewDefaultStoreConfig creates default store configuration
func NewDefaultStoreConfig() StoreConfig {
	return StoreConfig{
		AuthHeader:  DefaultStoreAuthHeader,
		TimeoutSecs: DefaultStoreTimeoutSecs,
		EnableHTTP2: true,
	}
}
