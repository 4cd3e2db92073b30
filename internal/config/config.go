// Package config resolves client configuration from flags, environment
// variables and an optional .env file. Precedence: flags > environment >
// .env > defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL        = "http://localhost:3001"
	DefaultRequestTimeout = 10 * time.Second

	// Poll cadences for server-derived state.
	DefaultMessagePollEvery      = 3 * time.Second
	DefaultNotificationPollEvery = 10 * time.Second
	DefaultLocationPollEvery     = 5 * time.Minute
)

type Config struct {
	BaseURL        string
	TokenPath      string // empty means the user config dir default
	RequestTimeout time.Duration

	MessagePollEvery      time.Duration
	NotificationPollEvery time.Duration
	LocationPollEvery     time.Duration

	Debug   bool
	LogPath string
}

// ParseFlags builds the config from args (without the program name) and the
// process environment. A .env file in the working directory is honored when
// present.
func ParseFlags(args []string) (Config, error) {
	// Best effort; absence of .env is the normal case.
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:               envOr("MATCHA_API_URL", DefaultBaseURL),
		TokenPath:             os.Getenv("MATCHA_TOKEN_PATH"),
		RequestTimeout:        DefaultRequestTimeout,
		MessagePollEvery:      DefaultMessagePollEvery,
		NotificationPollEvery: DefaultNotificationPollEvery,
		LocationPollEvery:     DefaultLocationPollEvery,
		LogPath:               envOr("MATCHA_LOG_PATH", "matcha.log"),
	}
	if os.Getenv("MATCHA_DEBUG") == "1" {
		cfg.Debug = true
	}
	if v := os.Getenv("MATCHA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("MATCHA_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	fs := flag.NewFlagSet("matcha", flag.ContinueOnError)
	fs.StringVar(&cfg.BaseURL, "api", cfg.BaseURL, "backend API base URL")
	fs.StringVar(&cfg.TokenPath, "token-file", cfg.TokenPath, "path of the persisted session token")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "write debug logs")
	fs.StringVar(&cfg.LogPath, "log-file", cfg.LogPath, "debug log destination")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("api base URL must not be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("timeout must be positive, got %v", cfg.RequestTimeout)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
