package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	defaultJWTSecret     = "dev-only-secret"
	defaultAdminPassword = "password"
)

// Config holds runtime settings. Secrets are env-only and never read from the
// YAML overlay.
type Config struct {
	Addr                 string        `yaml:"addr"`
	Environment          string        `yaml:"environment"`
	LogLevel             string        `yaml:"logLevel"`
	LogFile              string        `yaml:"logFile"`
	EmployeeSourceURL    string        `yaml:"employeeSourceUrl"`
	EmployeeFetchLimit   int           `yaml:"employeeFetchLimit"`
	EmployeeFetchTimeout time.Duration `yaml:"employeeFetchTimeout"`
	EmployeeCacheTTL     time.Duration `yaml:"employeeCacheTtl"`
	EmployeeSeed         int64         `yaml:"employeeSeed"`
	RefreshInterval      time.Duration `yaml:"refreshInterval"`
	BookmarkBackend      string        `yaml:"bookmarkBackend"`
	BookmarkFile         string        `yaml:"bookmarkFile"`
	RunMigrations        bool          `yaml:"runMigrations"`
	RedisAddr            string        `yaml:"redisAddr"`
	RedisDB              int           `yaml:"redisDb"`
	KafkaBrokers         []string      `yaml:"kafkaBrokers"`
	KafkaTopic           string        `yaml:"kafkaTopic"`
	AdminEmail           string        `yaml:"adminEmail"`
	MaxBodyBytes         int64         `yaml:"maxBodyBytes"`
	RateLimitPerMinute   int           `yaml:"rateLimitPerMinute"`
	MetricsEnabled       bool          `yaml:"metricsEnabled"`

	DatabaseURL       string `yaml:"-"`
	RedisPassword     string `yaml:"-"`
	DataEncryptionKey string `yaml:"-"`
	JWTSecret         string `yaml:"-"`
	AdminPassword     string `yaml:"-"`
}

func Defaults() Config {
	return Config{
		Addr:                 ":8080",
		Environment:          "development",
		LogLevel:             "info",
		EmployeeSourceURL:    "https://dummyjson.com",
		EmployeeFetchLimit:   50,
		EmployeeFetchTimeout: 10 * time.Second,
		EmployeeCacheTTL:     5 * time.Minute,
		EmployeeSeed:         42,
		BookmarkBackend:      BackendFile,
		BookmarkFile:         "data/bookmarks.json",
		RunMigrations:        true,
		RedisAddr:            "localhost:6379",
		KafkaTopic:           "hrdash.changes",
		AdminEmail:           "admin@hr.com",
		MaxBodyBytes:         1048576,
		RateLimitPerMinute:   120,
		MetricsEnabled:       true,
		JWTSecret:            defaultJWTSecret,
		AdminPassword:        defaultAdminPassword,
	}
}

// Load builds the config from defaults, then the YAML file at path (if any),
// then the environment. A .env file in the working directory is read first;
// it never overrides variables that are already set.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()
	if path == "" {
		path = os.Getenv("HRDASH_CONFIG")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return FromEnv(cfg), nil
}

// FromEnv overlays environment variables onto base.
func FromEnv(base Config) Config {
	cfg := base
	cfg.Addr = getEnv("APP_ADDR", cfg.Addr)
	cfg.Environment = getEnv("APP_ENV", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.EmployeeSourceURL = getEnv("EMPLOYEE_SOURCE_URL", cfg.EmployeeSourceURL)
	cfg.EmployeeFetchLimit = getEnvInt("EMPLOYEE_FETCH_LIMIT", cfg.EmployeeFetchLimit)
	cfg.EmployeeFetchTimeout = getEnvDuration("EMPLOYEE_FETCH_TIMEOUT", cfg.EmployeeFetchTimeout)
	cfg.EmployeeCacheTTL = getEnvDuration("EMPLOYEE_CACHE_TTL", cfg.EmployeeCacheTTL)
	cfg.EmployeeSeed = int64(getEnvInt("EMPLOYEE_SEED", int(cfg.EmployeeSeed)))
	cfg.RefreshInterval = getEnvDuration("REFRESH_INTERVAL", cfg.RefreshInterval)
	cfg.BookmarkBackend = strings.ToLower(getEnv("BOOKMARK_BACKEND", cfg.BookmarkBackend))
	cfg.BookmarkFile = getEnv("BOOKMARK_FILE", cfg.BookmarkFile)
	cfg.RunMigrations = getEnvBool("RUN_MIGRATIONS", cfg.RunMigrations)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)
	cfg.KafkaBrokers = getEnvList("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.DataEncryptionKey = getEnv("DATA_ENCRYPTION_KEY", cfg.DataEncryptionKey)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", cfg.AdminEmail)
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", int(cfg.MaxBodyBytes)))
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.MetricsEnabled = getEnvBool("METRICS_ENABLED", cfg.MetricsEnabled)
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.LogLevel)
	}
	switch c.BookmarkBackend {
	case BackendMemory:
	case BackendFile:
		if strings.TrimSpace(c.BookmarkFile) == "" {
			return fmt.Errorf("BOOKMARK_FILE is required for the file backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("BOOKMARK_BACKEND must be one of memory, file, postgres, redis")
	}
	if len(c.KafkaBrokers) > 0 && strings.TrimSpace(c.KafkaTopic) == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if c.EmployeeFetchLimit <= 0 {
		return fmt.Errorf("EMPLOYEE_FETCH_LIMIT must be positive")
	}
	if c.EmployeeFetchTimeout <= 0 {
		return fmt.Errorf("EMPLOYEE_FETCH_TIMEOUT must be positive")
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.AdminPassword == defaultAdminPassword {
			return fmt.Errorf("ADMIN_PASSWORD must be changed in production")
		}
	}
	if strings.TrimSpace(c.AdminEmail) == "" || c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}
