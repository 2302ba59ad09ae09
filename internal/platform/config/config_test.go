package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestFromEnvOverridesBase(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("BOOKMARK_BACKEND", "Redis")
	t.Setenv("REFRESH_INTERVAL", "90s")
	t.Setenv("EMPLOYEE_FETCH_LIMIT", "not-a-number")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg := FromEnv(Defaults())

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, BackendRedis, cfg.BookmarkBackend)
	assert.Equal(t, 90*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 50, cfg.EmployeeFetchLimit, "unparsable values keep the fallback")
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoadAppliesYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hrdash.yaml")
	body := []byte("addr: \":7070\"\nlogLevel: debug\nemployeeFetchLimit: 20\nrefreshInterval: 5m\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, 20, cfg.EmployeeFetchLimit)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.BookmarkBackend = "sqlite" }, wantErr: true},
		{name: "postgres without url", mutate: func(c *Config) { c.BookmarkBackend = BackendPostgres }, wantErr: true},
		{name: "postgres with url", mutate: func(c *Config) {
			c.BookmarkBackend = BackendPostgres
			c.DatabaseURL = "postgres://localhost/hrdash"
		}},
		{name: "redis without addr", mutate: func(c *Config) {
			c.BookmarkBackend = BackendRedis
			c.RedisAddr = ""
		}, wantErr: true},
		{name: "file without path", mutate: func(c *Config) { c.BookmarkFile = " " }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "production default secret", mutate: func(c *Config) { c.Environment = "production" }, wantErr: true},
		{name: "production default password", mutate: func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "a-real-secret"
		}, wantErr: true},
		{name: "production configured", mutate: func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "a-real-secret"
			c.AdminPassword = "a-real-password"
		}},
		{name: "small body limit", mutate: func(c *Config) { c.MaxBodyBytes = 10 }, wantErr: true},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimitPerMinute = 0 }, wantErr: true},
		{name: "kafka without topic", mutate: func(c *Config) {
			c.KafkaBrokers = []string{"localhost:9092"}
			c.KafkaTopic = ""
		}, wantErr: true},
		{name: "zero fetch limit", mutate: func(c *Config) { c.EmployeeFetchLimit = 0 }, wantErr: true},
		{name: "negative refresh", mutate: func(c *Config) { c.RefreshInterval = -time.Second }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
