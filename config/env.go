package config

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// Environment is the deployment the process runs in. It selects where
// settings are read from and how verbose the service is.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads CI=true first, then ENV. Unknown values fall back to
// development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	switch Environment(strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))) {
	case Production:
		return Production
	case Test:
		return Test
	default:
		return Development
	}
}

// GinMode maps the environment onto gin's debug/test/release modes.
func (e Environment) GinMode() string {
	switch e {
	case Production:
		return gin.ReleaseMode
	case Test, CI:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// LogMode is the default logger mode when LOG_MODE is unset.
func (e Environment) LogMode() string {
	if e == Production {
		return "production"
	}
	return "development"
}
