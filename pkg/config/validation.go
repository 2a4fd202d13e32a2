package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/aquarist-labs/glass/pkg/services"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// Log level normalization is handled in ApplyDefaults, not here.
// Validation accepts both uppercase and lowercase log levels.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	if cfg.API.Enabled && cfg.Metrics.Enabled && cfg.API.Port == cfg.Metrics.Port {
		return fmt.Errorf("api.port and metrics.port must differ (both %d)", cfg.API.Port)
	}

	names := make(map[string]bool)
	for i, svc := range cfg.Services {
		if names[svc.Name] {
			return fmt.Errorf("services[%d]: duplicate service name %q", i, svc.Name)
		}
		names[svc.Name] = true

		req, err := svc.CreateRequest()
		if err != nil {
			return fmt.Errorf("services[%d]: %w", i, err)
		}
		if err := services.ValidateRequest(req); err != nil {
			return fmt.Errorf("services[%d]: %w", i, err)
		}
	}

	if cfg.Store.Type == "s3" {
		if bucket, _ := cfg.Store.S3["bucket"].(string); bucket == "" {
			return fmt.Errorf("store.s3.bucket is required when store.type is s3")
		}
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
