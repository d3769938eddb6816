// Package config loads server configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the full server configuration.
type Config struct {
	Addr      string `env:"QUIZCLASH_ADDR" envDefault:":8080"`
	AdminAddr string `env:"QUIZCLASH_ADMIN_ADDR" envDefault:":8081"`

	RedisAddr     string `env:"QUIZCLASH_REDIS_ADDR"`
	RedisPassword string `env:"QUIZCLASH_REDIS_PASSWORD"`
	RedisDB       int    `env:"QUIZCLASH_REDIS_DB" envDefault:"0"`

	RoundSeconds int `env:"QUIZCLASH_ROUND_SECONDS" envDefault:"90"`
	StartingGold int `env:"QUIZCLASH_STARTING_GOLD" envDefault:"5"`

	LogLevel string `env:"QUIZCLASH_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
