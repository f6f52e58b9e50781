package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backends accepted by DATA_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var validBackends = []string{BackendMemory, BackendSQLite, BackendPostgres}

type Config struct {
	// HTTP server
	Addr   string
	WebDir string

	// Storage
	DataBackend  string
	DatabaseURL  string
	SQLiteDBPath string
	SeedFile     string

	// Calendar days are cut in this zone.
	TZName string

	// Sessions
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	DisableAuth          bool
	TrustForwardAuth     bool

	LogLevel string

	// SSO
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
}

// Load reads a .env file when one exists and then the environment.
func Load() *Config {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	return &Config{
		Addr:   getEnv("ADDR", ":8080"),
		WebDir: getEnv("WEB_DIR", "web"),

		DataBackend:  getEnv("DATA_BACKEND", BackendMemory),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/mindspace.db"),
		SeedFile:     getEnv("SEED_FILE", ""),

		TZName: getEnv("TZ_NAME", ""),

		SessionTTL:           getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		DisableAuth:          getEnvBool("DISABLE_AUTH", false),
		TrustForwardAuth:     getEnvBool("TRUST_FORWARD_AUTH", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", ""),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errs = append(errs, fmt.Errorf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	switch c.DataBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when using postgres backend"))
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errs = append(errs, errors.New("SQLite database path cannot be empty when using sqlite backend"))
		}
	}

	if c.SeedFile != "" && c.DataBackend != BackendMemory {
		errs = append(errs, fmt.Errorf("SEED_FILE is only supported by the memory backend, not '%s'", c.DataBackend))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	if c.SessionTTL < time.Minute {
		errs = append(errs, fmt.Errorf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.SessionSweepInterval < time.Second {
		errs = append(errs, fmt.Errorf("invalid session sweep interval %v: must be at least 1 second", c.SessionSweepInterval))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if c.OIDCIssuer != "" {
		if u, err := url.Parse(c.OIDCIssuer); err != nil || (u.Scheme != "https" && u.Scheme != "http") {
			errs = append(errs, fmt.Errorf("invalid OIDC issuer '%s': must be an http(s) URL", c.OIDCIssuer))
		}
		if c.OIDCClientID == "" {
			errs = append(errs, errors.New("OIDC_CLIENT_ID is required when OIDC_ISSUER is set"))
		}
		if c.OIDCRedirectURL == "" {
			errs = append(errs, errors.New("OIDC_REDIRECT_URL is required when OIDC_ISSUER is set"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// OIDCEnabled reports whether SSO login should be offered.
func (c *Config) OIDCEnabled() bool { return c.OIDCIssuer != "" }

// Location resolves TZ_NAME. Empty means the process local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TZName == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TZName)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone '%s': %w", c.TZName, err)
	}
	return loc, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': %w", c.LogLevel, err)
	}
	return lvl, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
