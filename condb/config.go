package condb

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

var ErrMissingSecret = errors.New("missing connection secret")

type Config struct {
	Backend     string `mapstructure:"backend"`
	DatabaseURL string `mapstructure:"database_url"`
	SupabaseURL string `mapstructure:"supabase_url"`
	SupabaseKey string `mapstructure:"supabase_key"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`

	Port           string        `mapstructure:"port"`
	AllowOrigins   string        `mapstructure:"allow_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	JWTSecret      string        `mapstructure:"jwt_secret"`

	LowStockThreshold int `mapstructure:"low_stock_threshold"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

var envKeys = map[string]string{
	"backend":             "INVENTORY_BACKEND",
	"database_url":        "DATABASE_URL",
	"supabase_url":        "SUPABASE_URL",
	"supabase_key":        "SUPABASE_KEY",
	"auto_migrate":        "AUTO_MIGRATE",
	"port":                "PORT",
	"allow_origins":       "ALLOW_ORIGINS",
	"request_timeout":     "REQUEST_TIMEOUT",
	"jwt_secret":          "JWT_SECRET",
	"low_stock_threshold": "LOW_STOCK_THRESHOLD",
	"log_level":           "LOG_LEVEL",
	"log_format":          "LOG_FORMAT",
}

// Load reads the configuration and validates it for serving.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads .env (when present) and the process environment without
// checking backend secrets.
func Read() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment variables")
	}

	v := viper.New()
	v.SetDefault("backend", BackendSupabase)
	v.SetDefault("auto_migrate", false)
	v.SetDefault("port", "8080")
	v.SetDefault("allow_origins", "http://127.0.0.1:5500,http://localhost:5500,http://localhost:3000")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("low_stock_threshold", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	return &cfg, nil
}

// Validate checks that the selected backend has its connection secrets.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("%w: SUPABASE_URL and SUPABASE_KEY are required", ErrMissingSecret)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required", ErrMissingSecret)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown INVENTORY_BACKEND %q", c.Backend)
	}
	if c.LowStockThreshold < 1 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD must be at least 1")
	}
	return nil
}
