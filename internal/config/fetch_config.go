package config

// FetchConfig defines the process-wide fetch queue behavior. All remote
// calls share one queue because the store's rate limit is global per
// credential.
type FetchConfig struct {
	// MinIntervalMs is the minimum spacing between the start of two
	// consecutive remote calls.
	MinIntervalMs int `json:"min_interval_ms,omitempty" yaml:"min_interval_ms,omitempty" validate:"omitempty,min=1"`
	// MaxRetries bounds retries of a throttled (HTTP 429) call. Backoff
	// delay is min_interval * 2^attempt.
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"omitempty,min=0,max=10"`
}

// NewDefaultFetchConfig creates default fetch configuration
func NewDefaultFetchConfig() FetchConfig {
	return FetchConfig{
		MinIntervalMs: DefaultFetchMinIntervalMs,
		MaxRetries:    DefaultFetchMaxRetries,
	}
}
