// Package config loads run settings from LINEUP_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"lineup/meta"
)

type Config struct {
	Addr     string `env:"LINEUP_ADDR" envDefault:"127.0.0.1:8080"`
	DBPath   string `env:"LINEUP_DB_PATH"`
	LogLevel string `env:"LINEUP_LOG_LEVEL" envDefault:"info"`

	Goroutines        int `env:"LINEUP_GOROUTINES"`
	Trials            int `env:"LINEUP_TRIALS"`
	Candidates        int `env:"LINEUP_CANDIDATES"`
	GamesPerCandidate int `env:"LINEUP_GAMES_PER_CANDIDATE"`
	TopK              int `env:"LINEUP_TOP_K"`

	OutputDir    string        `env:"LINEUP_OUTPUT_DIR" envDefault:"results"`
	FetchTimeout time.Duration `env:"LINEUP_FETCH_TIMEOUT" envDefault:"15s"`
	OtelEndpoint string        `env:"LINEUP_OTEL_ENDPOINT"`
}

// Default holds the run sizes from meta and no environment overrides.
func Default() Config {
	return Config{
		Goroutines:        meta.GO_ROUTINES,
		Trials:            meta.TRIALS,
		Candidates:        meta.CANDIDATES,
		GamesPerCandidate: meta.GAMES_PER_CANDIDATE,
		TopK:              meta.TOP_K,
	}
}

// Load starts from Default and applies the environment.
func Load() (Config, error) {
	cfg := Default()
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level parses LogLevel, e.g. "debug" or "warn".
func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
