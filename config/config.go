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

	"ratios.service/logging"
)

const (
	defaultHost      = "www.alphavantage.co"
	defaultAddr      = ":8080"
	defaultTimeout   = 30 * time.Second
	defaultWorkers   = 8
	defaultNamespace = "ratios"
	defaultOrigins   = "http://localhost:3000"
)

type Config struct {
	ApiKey           string
	Host             string
	Addr             string
	RequestTimeout   time.Duration
	Workers          int
	MetricsNamespace string
	AllowedOrigins   []string
	Logging          logging.Config
}

// Load reads the given .env files, ".env" when none are given, then the environment.
// Missing .env files are not an error, variables may come from the environment alone.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading env files: %w", err)
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		ApiKey:           getenv("ALPHAVANTAGE_API_KEY"),
		Host:             withDefault(getenv("ALPHAVANTAGE_HOST"), defaultHost),
		Addr:             withDefault(getenv("HTTP_ADDR"), defaultAddr),
		MetricsNamespace: withDefault(getenv("METRICS_NAMESPACE"), defaultNamespace),
		AllowedOrigins:   splitList(withDefault(getenv("CORS_ALLOWED_ORIGINS"), defaultOrigins)),
		Logging: logging.Config{
			Level:  withDefault(getenv("LOG_LEVEL"), "info"),
			Format: withDefault(getenv("LOG_FORMAT"), "console"),
			Output: withDefault(getenv("LOG_OUTPUT"), "stdout"),
		},
	}

	var err error
	if cfg.RequestTimeout, err = parseDuration(getenv, "REQUEST_TIMEOUT", defaultTimeout); err != nil {
		return nil, err
	}
	if cfg.Workers, err = parseInt(getenv, "WORKERS", defaultWorkers); err != nil {
		return nil, err
	}
	if cfg.Logging.Rotate, err = parseBool(getenv, "LOG_ROTATE", false); err != nil {
		return nil, err
	}
	if cfg.Logging.MaxSizeMB, err = parseInt(getenv, "LOG_MAX_SIZE_MB", 100); err != nil {
		return nil, err
	}
	if cfg.Logging.MaxAgeDays, err = parseInt(getenv, "LOG_MAX_AGE_DAYS", 7); err != nil {
		return nil, err
	}

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("WORKERS must be at least 1, got %d", cfg.Workers)
	}

	return cfg, nil
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func splitList(value string) []string {
	var res []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}

func parseDuration(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %w", key, err)
	}
	return d, nil
}

func parseInt(getenv func(string) string, key string, fallback int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %w", key, err)
	}
	return v, nil
}

func parseBool(getenv func(string) string, key string, fallback bool) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("error parsing %s: %w", key, err)
	}
	return v, nil
}
