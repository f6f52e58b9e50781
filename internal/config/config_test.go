package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Addr:                 ":8080",
		DataBackend:          BackendMemory,
		SessionTTL:           24 * time.Hour,
		SessionSweepInterval: time.Minute,
		LogLevel:             "info",
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "DATA_BACKEND", "SESSION_TTL", "LOG_LEVEL", "TZ_NAME", "DISABLE_AUTH", "TRUST_FORWARD_AUTH"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, BackendMemory, cfg.DataBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DisableAuth)
	assert.False(t, cfg.TrustForwardAuth, "forward auth is off unless a proxy is declared")
	assert.False(t, cfg.OIDCEnabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", "/tmp/m.db")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_SWEEP_INTERVAL", "not-a-duration")
	t.Setenv("DISABLE_AUTH", "true")
	t.Setenv("TRUST_FORWARD_AUTH", "true")
	t.Setenv("TZ_NAME", "Europe/Rome")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, BackendSQLite, cfg.DataBackend)
	assert.Equal(t, "/tmp/m.db", cfg.SQLiteDBPath)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.SessionSweepInterval, "unparsable value falls back to default")
	assert.True(t, cfg.DisableAuth)
	assert.True(t, cfg.TrustForwardAuth)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Rome", loc.String())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid memory config", mutate: func(*Config) {}},
		{
			name:    "invalid backend",
			mutate:  func(c *Config) { c.DataBackend = "sheets" },
			wantErr: "invalid data backend 'sheets'",
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.DataBackend = BackendPostgres },
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.DataBackend = BackendSQLite },
			wantErr: "SQLite database path cannot be empty",
		},
		{
			name: "seed file on sqlite",
			mutate: func(c *Config) {
				c.DataBackend = BackendSQLite
				c.SQLiteDBPath = "x.db"
				c.SeedFile = "seed.json"
			},
			wantErr: "SEED_FILE is only supported by the memory backend",
		},
		{
			name:    "unknown zone",
			mutate:  func(c *Config) { c.TZName = "Mars/Olympus" },
			wantErr: "invalid time zone 'Mars/Olympus'",
		},
		{
			name:    "short ttl",
			mutate:  func(c *Config) { c.SessionTTL = time.Second },
			wantErr: "invalid session TTL",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: "invalid log level 'loud'",
		},
		{
			name:    "oidc without client",
			mutate:  func(c *Config) { c.OIDCIssuer = "https://id.example.com"; c.OIDCRedirectURL = "https://app/cb" },
			wantErr: "OIDC_CLIENT_ID is required",
		},
		{
			name:    "oidc bad issuer",
			mutate:  func(c *Config) { c.OIDCIssuer = "id.example.com"; c.OIDCClientID = "x"; c.OIDCRedirectURL = "https://app/cb" },
			wantErr: "invalid OIDC issuer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateCollectsAll(t *testing.T) {
	cfg := validConfig()
	cfg.DataBackend = "nope"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data backend")
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestConfig_SlogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		cfg := Config{LogLevel: in}
		got, err := cfg.SlogLevel()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
