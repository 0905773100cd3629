package config

// DiffConfig defines configuration for the comparison pipeline
type DiffConfig struct {
	// AllowedExtensions filters intersection keys before any content fetch.
	AllowedExtensions []string `json:"allowed_extensions,omitempty" yaml:"allowed_extensions,omitempty"`
	// ProgressEveryFiles controls how often periodic progress events are
	// emitted; differing files always emit immediately.
	ProgressEveryFiles int `json:"progress_every_files,omitempty" yaml:"progress_every_files,omitempty" validate:"omitempty,min=1"`
	// StripTrailingWhitespace removes trailing horizontal whitespace per
	// line before diffing.
	StripTrailingWhitespace bool `json:"strip_trailing_whitespace" yaml:"strip_trailing_whitespace"`
}

// NewDefaultDiffConfig creates default diff configuration
func NewDefaultDiffConfig() DiffConfig {
	exts := make([]string, len(DefaultAllowedExtensions))
	copy(exts, DefaultAllowedExtensions)
	return DiffConfig{
		AllowedExtensions:  exts,
		ProgressEveryFiles: DefaultProgressEveryFiles,
	}
}
