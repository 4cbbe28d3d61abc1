// Package config loads the application configuration from the
// environment, with an optional .env file for development.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the sync layer. Defaults match the
// production deployment; override via environment variables.
type Config struct {
	// BaseURL is the spreadsheet API endpoint.
	BaseURL string `env:"CRICKET_API_URL"`
	// RequestTimeout bounds each API call.
	RequestTimeout time.Duration `env:"CRICKET_API_TIMEOUT" envDefault:"10s"`

	// CacheTTL is the entry time-to-live.
	CacheTTL time.Duration `env:"CRICKET_CACHE_TTL" envDefault:"24h"`
	// UpdateCooldown throttles on-demand update checks.
	UpdateCooldown time.Duration `env:"CRICKET_UPDATE_COOLDOWN" envDefault:"30s"`

	// PollInterval is the background updater's cycle interval.
	PollInterval time.Duration `env:"CRICKET_POLL_INTERVAL" envDefault:"5m"`
	// RefreshLimit caps per-player refreshes per updater cycle.
	RefreshLimit int `env:"CRICKET_REFRESH_LIMIT" envDefault:"3"`
	// RefreshDelay spaces sequential per-player refreshes.
	RefreshDelay time.Duration `env:"CRICKET_REFRESH_DELAY" envDefault:"400ms"`

	// PrefetchLimit caps players warmed per prefetch batch.
	PrefetchLimit int `env:"CRICKET_PREFETCH_LIMIT" envDefault:"5"`
	// PrefetchDelay spaces sequential prefetch requests.
	PrefetchDelay time.Duration `env:"CRICKET_PREFETCH_DELAY" envDefault:"500ms"`

	// DBPath is the SQLite cache location; empty means the user config dir.
	DBPath string `env:"CRICKET_DB_PATH"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (Config, error) {
	godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
