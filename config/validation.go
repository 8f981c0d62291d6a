package config

import (
	"fmt"
	"strings"

	"github.com/pageza/foodgram/backend/internal/model"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "is required"})
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBUser == "" {
			errs = append(errs, ValidationError{"DB_USER", "is required for postgres"})
		}
		if cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_NAME", "is required for postgres"})
		}
		// Local development may use a trusted connection; deployed ones may not.
		if cfg.DBPassword == "" && (cfg.Environment == CI || cfg.Environment == Production) {
			errs = append(errs, ValidationError{"DB_PASSWORD", fmt.Sprintf("is required in %s", cfg.Environment)})
		}
	case "sqlite":
		if cfg.Environment == Production {
			errs = append(errs, ValidationError{"DB_DRIVER", "sqlite is not allowed in production"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.ShortHashLength < 1 || cfg.ShortHashLength > model.MaxShortHashLength {
		errs = append(errs, ValidationError{"SHORT_HASH_LENGTH", fmt.Sprintf("must be between 1 and %d", model.MaxShortHashLength)})
	}
	if cfg.RateLimitPerMinute < 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_PER_MINUTE", "must not be negative"})
	}
	if cfg.Environment == Production && cfg.S3Bucket == "" {
		errs = append(errs, ValidationError{"S3_BUCKET_NAME", "is required in production"})
	}

	if len(errs) > 0 {
		lines := make([]string, 0, len(errs))
		for _, e := range errs {
			lines = append(lines, e.Error())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
	}

	return nil
}
