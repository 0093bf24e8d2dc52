package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/lovequiz.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`
	SiteURL  string     `env:"SITE_URL" envDefault:"https://firstdatelabs.com"`

	// DatabaseURL selects Postgres over the embedded SQLite file when set.
	DatabaseURL string `env:"DATABASE_URL"`

	// RedisURL enables the submission replay cache. Empty disables it.
	RedisURL  string        `env:"REDIS_URL"`
	ReplayTTL time.Duration `env:"REPLAY_TTL" envDefault:"24h"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.ReplayTTL <= 0 {
		return nil, fmt.Errorf("REPLAY_TTL must be positive, got %s", cfg.ReplayTTL)
	}
	return &cfg, nil
}
