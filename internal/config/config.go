package config

import (
	"fmt"
	"os"
	"time"

	"github.com/KOFI-GYIMAH/repo-scorer/pkg/logger"
	"github.com/joho/godotenv"
)

const (
	defaultCacheTTL        = 5 * time.Minute
	defaultServerPort      = ":8081"
	defaultShutdownTimeout = 10 * time.Second
)

type Config struct {
	GitHubToken     string
	CacheTTL        time.Duration
	ServerPort      string
	ShutdownTimeout time.Duration
	Debug           bool
}

// * LoadConfiguration reads the .env file, if any, and then the process
// * environment into a Config
func LoadConfiguration() (*Config, error) {
	_ = godotenv.Load(".env")
	return FromEnv(os.Getenv)
}

// * FromEnv builds a Config from getenv, applying defaults for unset values
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		GitHubToken:     getenv("GITHUB_TOKEN"),
		ServerPort:      getenv("SERVER_PORT"),
		CacheTTL:        defaultCacheTTL,
		ShutdownTimeout: defaultShutdownTimeout,
		Debug:           getenv("DEBUG") == "true",
	}

	if cfg.GitHubToken == "" {
		logger.Warn("GITHUB_TOKEN is not set, GitHub search will use the unauthenticated quota")
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = defaultServerPort
	}

	var err error
	if cfg.CacheTTL, err = parseDuration(getenv, "CACHE_TTL", defaultCacheTTL); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDuration(getenv, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return nil, err
	}

	logger.Info("✅ env content loaded successfully 🎉")
	return cfg, nil
}

func parseDuration(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}
