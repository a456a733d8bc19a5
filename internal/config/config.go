package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values.
type Config struct {
	HTTPPort           string `mapstructure:"HTTP_PORT"`
	DatabaseURL        string `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns     int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	Secret             string `mapstructure:"SECRET"`
	TokenExpireMinutes int    `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	Environment        string `mapstructure:"ENVIRONMENT"`
	ServiceName        string `mapstructure:"SERVICE_NAME"`
	ServiceVersion     string `mapstructure:"SERVICE_VERSION"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
	LogFormat          string `mapstructure:"LOG_FORMAT"`
	LogFile            string `mapstructure:"LOG_FILE"`
	ShutdownSeconds    int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
	SeedOrganizations  string `mapstructure:"SEED_ORGANIZATIONS"`
}

var defaults = map[string]any{
	"HTTP_PORT":                   "8080",
	"DATABASE_URL":                "file:healthapp.db?_pragma=foreign_keys(1)",
	"DB_MAX_OPEN_CONNS":           10,
	"SECRET":                      "dev_secret",
	"ACCESS_TOKEN_EXPIRE_MINUTES": 30,
	"ENVIRONMENT":                 "development",
	"SERVICE_NAME":                "ClinicDesk",
	"SERVICE_VERSION":             "1.0.0",
	"LOG_LEVEL":                   "info",
	"LOG_FORMAT":                  "",
	"LOG_FILE":                    "",
	"SHUTDOWN_TIMEOUT_SECONDS":    10,
	"SEED_ORGANIZATIONS":          "assets/organizations.csv",
}

// Load reads configuration from environment variables with reasonable defaults.
// A .env file is expected to have been loaded into the environment already.
func Load() (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		return nil, fmt.Errorf("invalid HTTP_PORT value %q", cfg.HTTPPort)
	}
	if cfg.TokenExpireMinutes <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", cfg.TokenExpireMinutes)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpireMinutes) * time.Minute
}

func (c *Config) ShutdownTimeout() time.Duration {
	if c.ShutdownSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ShutdownSeconds) * time.Second
}

func (c *Config) IsDev() bool {
	return c.Environment == "development"
}

// LogEncoding is LOG_FORMAT when set, otherwise console in development and
// json everywhere else.
func (c *Config) LogEncoding() string {
	if c.LogFormat != "" {
		return c.LogFormat
	}
	if c.IsDev() {
		return "console"
	}
	return "json"
}
