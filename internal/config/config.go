package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceHTTP  = "http"
	SourceMySQL = "mysql"
)

// Config holds environment-driven configuration.
type Config struct {
	Source string // SOURCE: http (default) or mysql

	TimeAPI struct {
		BaseURL string        // default: https://api.dummy.in-lotion.de
		Path    string        // default: /api/time-changes
		Token   string        // optional bearer token
		Timeout time.Duration // default: 10s
	}
	MySQL struct {
		DSN     string // e.g., user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
		Migrate bool   // apply the time_changes schema at startup
	}
	HTTP struct {
		Addr            string        // default: :8080
		RefreshInterval time.Duration // default: 5m, 0 disables background refresh
	}
}

// Load reads a .env file when present and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	var cfg Config
	var err error

	cfg.Source = orDefault(getenv("SOURCE"), SourceHTTP)
	if cfg.Source != SourceHTTP && cfg.Source != SourceMySQL {
		return cfg, fmt.Errorf("SOURCE must be %q or %q, got %q", SourceHTTP, SourceMySQL, cfg.Source)
	}

	cfg.TimeAPI.BaseURL = orDefault(getenv("TIME_API_BASE_URL"), "https://api.dummy.in-lotion.de")
	cfg.TimeAPI.Path = orDefault(getenv("TIME_API_PATH"), "/api/time-changes")
	cfg.TimeAPI.Token = getenv("TIME_API_TOKEN")
	if cfg.TimeAPI.Timeout, err = duration(getenv, "TIME_API_TIMEOUT", 10*time.Second); err != nil {
		return cfg, err
	}
	if cfg.TimeAPI.Timeout <= 0 {
		return cfg, errors.New("TIME_API_TIMEOUT must be positive")
	}

	cfg.MySQL.DSN = getenv("MYSQL_DSN")
	if cfg.Source == SourceMySQL && cfg.MySQL.DSN == "" {
		return cfg, errors.New("MYSQL_DSN is required when SOURCE=mysql")
	}
	if v := getenv("MYSQL_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.New("MYSQL_MIGRATE must be a boolean")
		}
		cfg.MySQL.Migrate = b
	}

	cfg.HTTP.Addr = orDefault(getenv("HTTP_ADDR"), ":8080")
	if cfg.HTTP.RefreshInterval, err = duration(getenv, "REFRESH_INTERVAL", 5*time.Minute); err != nil {
		return cfg, err
	}
	if cfg.HTTP.RefreshInterval < 0 {
		return cfg, errors.New("REFRESH_INTERVAL must not be negative")
	}

	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 30s or 5m: %w", key, err)
	}
	return d, nil
}
