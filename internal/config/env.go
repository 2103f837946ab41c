package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds process settings read from the environment. Command-line flags take precedence.
type Env struct {
	DBPath   string `env:"PORTSIM_DB_PATH"  envDefault:"portsim.db"`
	Config   string `env:"PORTSIM_CONFIG"`
	Format   string `env:"PORTSIM_FORMAT"   envDefault:"console"`
	Horizon  int    `env:"PORTSIM_HORIZON"  envDefault:"35"`
	Currency string `env:"PORTSIM_CURRENCY" envDefault:"EUR"`
	Debug    bool   `env:"PORTSIM_DEBUG"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
