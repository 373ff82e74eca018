package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration, read from STATECRAFT_* environment
// variables. CLI flags may override individual fields.
type Config struct {
	Addr         string     `env:"STATECRAFT_ADDR" envDefault:":8080"`
	DBPath       string     `env:"STATECRAFT_DB" envDefault:"statecraft.db"`
	ScenarioFile string     `env:"STATECRAFT_SCENARIOS"`
	LogLevel     slog.Level `env:"STATECRAFT_LOG_LEVEL" envDefault:"INFO"`
}

// Parse loads configuration from the environment.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
