package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks struct tags first, then the rules tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

func validateCustomRules(cfg *Config) error {
	for i, ext := range cfg.Extensions {
		if strings.ContainsAny(ext, `/\.`) {
			return fmt.Errorf("extensions[%d]: %q is not a bare extension", i, ext)
		}
	}

	if (cfg.S3.AccessKeyID == "") != (cfg.S3.SecretAccessKey == "") {
		return fmt.Errorf("s3: access_key_id and secret_access_key must be set together")
	}

	if cfg.Thumbnail.DiskCache && cfg.Thumbnail.CacheDir == "" {
		return fmt.Errorf("thumbnail: disk_cache is enabled but cache_dir is empty")
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return err
}
