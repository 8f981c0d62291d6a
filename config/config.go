package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort    string
	ServerHost    string
	PublicBaseURL string
	CORSOrigins   []string

	// Database configuration. DBDriver is "postgres" or "sqlite"; DBPath is
	// only used by sqlite.
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBPath        string
	MigrationsDir string

	// Redis configuration. Rate limiting is disabled when neither RedisURL
	// nor RedisHost is set.
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	RedisURL           string
	RateLimitPerMinute int

	// JWT configuration
	JWTSecret string

	// Image storage. Images are kept in memory when S3Bucket is empty.
	S3Bucket        string
	S3Region        string
	S3PublicBaseURL string

	LogMode         string
	ShortHashLength int
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	// Load configuration based on environment
	switch env {
	case CI:
		load(cfg, os.Getenv)
	case Development, Test, Production:
		load(cfg, secretOrEnv)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// load fills cfg through lookup, which receives upper-case variable names.
// Secrets are read from files named after the lower-case form.
func load(cfg *Config, lookup func(string) string) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			return v
		}
		return def
	}

	cfg.ServerPort = get("SERVER_PORT", "8080")
	cfg.ServerHost = get("SERVER_HOST", "0.0.0.0")
	cfg.PublicBaseURL = strings.TrimRight(get("PUBLIC_BASE_URL", ""), "/")
	cfg.CORSOrigins = splitList(get("CORS_ORIGINS", "http://localhost:3000"))

	cfg.DBDriver = get("DB_DRIVER", "postgres")
	cfg.DBHost = get("DB_HOST", "localhost")
	cfg.DBPort = get("DB_PORT", "5432")
	cfg.DBUser = get("DB_USER", "")
	cfg.DBPassword = get("DB_PASSWORD", "")
	cfg.DBName = get("DB_NAME", "foodgram")
	cfg.DBSSLMode = get("DB_SSL_MODE", "disable")
	cfg.DBPath = get("DB_PATH", "foodgram.db")
	cfg.MigrationsDir = get("MIGRATIONS_DIR", "migrations")

	cfg.RedisHost = get("REDIS_HOST", "")
	cfg.RedisPort = get("REDIS_PORT", "6379")
	cfg.RedisPassword = get("REDIS_PASSWORD", "")
	cfg.RedisURL = get("REDIS_URL", "")
	cfg.RedisDB = atoi(get("REDIS_DB", "0"), 0)
	cfg.RateLimitPerMinute = atoi(get("RATE_LIMIT_PER_MINUTE", "120"), 120)

	cfg.JWTSecret = get("JWT_SECRET", "")

	cfg.S3Bucket = get("S3_BUCKET_NAME", "")
	cfg.S3Region = get("AWS_REGION", "us-east-1")
	cfg.S3PublicBaseURL = strings.TrimRight(get("S3_PUBLIC_BASE_URL", ""), "/")

	cfg.LogMode = get("LOG_MODE", cfg.Environment.LogMode())
	cfg.ShortHashLength = atoi(get("SHORT_HASH_LENGTH", "8"), 8)
}

// secretOrEnv prefers a Docker secret file and falls back to the environment.
func secretOrEnv(key string) string {
	if v := readSecret(strings.ToLower(key)); v != "" {
		return v
	}
	return os.Getenv(key)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// RedisEnabled reports whether a Redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func atoi(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
