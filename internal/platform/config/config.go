package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"pet-feeding-ranking/internal/platform/logger"

	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreREST     = "rest"
)

// Config se carga una vez al arrancar y se trata como inmutable.
// Orden: defaults -> archivo YAML (CONFIG_FILE, opcional) -> env vars.
type Config struct {
	Port    string `yaml:"port"`
	AppName string `yaml:"app_name"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Log Store
	LogStore     string        `yaml:"log_store"`
	DatabaseDSN  string        `yaml:"db_dsn"`
	DBMigrate    bool          `yaml:"db_migrate"`
	SQLitePath   string        `yaml:"sqlite_path"`
	StoreURL     string        `yaml:"log_store_url"`
	StoreAPIKey  string        `yaml:"log_store_api_key"`
	StoreTimeout time.Duration `yaml:"log_store_timeout"`
	StoreMaxRows int           `yaml:"log_store_max_rows"`
	SeedFile     string        `yaml:"seed_file"`

	// Ranking
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	SnapshotMaxAge  time.Duration `yaml:"snapshot_max_age"`

	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

func Defaults() Config {
	return Config{
		Port:               "8080",
		AppName:            "pet-feeding-ranking",
		LogLevel:           "info",
		LogFormat:          "text",
		LogStore:           StoreMemory,
		SQLitePath:         "feeding.db",
		StoreTimeout:       10 * time.Second,
		StoreMaxRows:       50000,
		RefreshInterval:    60 * time.Second,
		SnapshotMaxAge:     120 * time.Second,
		RateLimitPerMinute: 120,
	}
}

// Load lee configuración del proceso.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := Defaults()

	if path := strings.TrimSpace(getenv("CONFIG_FILE")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	var errs []error

	setString(getenv, "PORT", &cfg.Port)
	setString(getenv, "APP_NAME", &cfg.AppName)
	setString(getenv, "LOG_LEVEL", &cfg.LogLevel)
	setString(getenv, "LOG_FORMAT", &cfg.LogFormat)
	setString(getenv, "LOG_STORE", &cfg.LogStore)
	setString(getenv, "DB_DSN", &cfg.DatabaseDSN)
	setString(getenv, "SQLITE_PATH", &cfg.SQLitePath)
	setString(getenv, "LOG_STORE_URL", &cfg.StoreURL)
	setString(getenv, "LOG_STORE_API_KEY", &cfg.StoreAPIKey)
	setString(getenv, "SEED_FILE", &cfg.SeedFile)

	errs = append(errs,
		setBool(getenv, "DB_MIGRATE", &cfg.DBMigrate),
		setDuration(getenv, "LOG_STORE_TIMEOUT", &cfg.StoreTimeout),
		setInt(getenv, "LOG_STORE_MAX_ROWS", &cfg.StoreMaxRows),
		setDuration(getenv, "RANKING_REFRESH_INTERVAL", &cfg.RefreshInterval),
		setDuration(getenv, "RANKING_SNAPSHOT_MAX_AGE", &cfg.SnapshotMaxAge),
		setInt(getenv, "RATE_LIMIT_PER_MINUTE", &cfg.RateLimitPerMinute),
	)

	return errors.Join(errs...)
}

// Validate revisa combinaciones: cada store pide lo suyo.
func (c *Config) Validate() error {
	c.LogStore = strings.ToLower(strings.TrimSpace(c.LogStore))

	var missing []string
	switch c.LogStore {
	case StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseDSN) == "" {
			missing = append(missing, "DB_DSN")
		}
	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			missing = append(missing, "SQLITE_PATH")
		}
	case StoreREST:
		if strings.TrimSpace(c.StoreURL) == "" {
			missing = append(missing, "LOG_STORE_URL")
		}
		if strings.TrimSpace(c.StoreAPIKey) == "" {
			missing = append(missing, "LOG_STORE_API_KEY")
		}
	default:
		return fmt.Errorf("LOG_STORE must be one of memory|postgres|sqlite|rest, got %q", c.LogStore)
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if c.LogStore == StoreREST {
		if _, err := url.ParseRequestURI(c.StoreURL); err != nil {
			return fmt.Errorf("LOG_STORE_URL: %w", err)
		}
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("LOG_FORMAT: %w", err)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("RANKING_REFRESH_INTERVAL must be >= 1s, got %s", c.RefreshInterval)
	}
	if c.SnapshotMaxAge < 0 {
		return fmt.Errorf("RANKING_SNAPSHOT_MAX_AGE must be >= 0, got %s", c.SnapshotMaxAge)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be >= 0, got %d", c.RateLimitPerMinute)
	}
	if c.StoreMaxRows <= 0 {
		return fmt.Errorf("LOG_STORE_MAX_ROWS must be > 0, got %d", c.StoreMaxRows)
	}
	return nil
}

func setString(getenv func(string) string, key string, dst *string) {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(getenv func(string) string, key string, dst *int) error {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: invalid int %q", key, v)
	}
	*dst = i
	return nil
}

func setBool(getenv func(string) string, key string, dst *bool) error {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: invalid bool %q", key, v)
	}
	*dst = b
	return nil
}

func setDuration(getenv func(string) string, key string, dst *time.Duration) error {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q", key, v)
	}
	*dst = d
	return nil
}
