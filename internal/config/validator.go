package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	// Register custom validation for LogLevel
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		level := strings.ToLower(fl.Field().String())
		switch level {
		case "", "debug", "info", "warn", "error", "fatal", "panic": // Allow empty for omitempty
			return true
		default:
			return false
		}
	})

	// Register custom validation for LogFormat
	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		format := strings.ToLower(fl.Field().String())
		switch format {
		case "", "console", "text", "json": // Allow empty for omitempty
			return true
		default:
			return false
		}
	})

	if err := validate.Struct(cfg); err != nil {
		var invalidErr *validator.InvalidValidationError
		if errors.As(err, &invalidErr) {
			return fmt.Errorf("config validation setup failed: %w", err)
		}

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			var messages []string
			for _, fieldErr := range validationErrs {
				messages = append(messages, fmt.Sprintf(
					"field '%s' failed on '%s' (value: %v)",
					fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Value()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(messages, "; "))
		}
		return err
	}

	for _, ext := range cfg.DiffConfig.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("config validation failed: allowed extension '%s' must start with a dot", ext)
		}
	}

	return nil
}
