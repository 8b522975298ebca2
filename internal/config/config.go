// Package config loads runtime settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port     string `yaml:"port" env:"OUTMIND_PORT" env-default:"8080"`
	DBPath   string `yaml:"db_path" env:"OUTMIND_DB_PATH" env-default:"outmind.db"`
	LogLevel string `yaml:"log_level" env:"OUTMIND_LOG_LEVEL" env-default:"info"`

	// HouseholdName is applied to the seeded household row at startup.
	HouseholdName string `yaml:"household_name" env:"OUTMIND_HOUSEHOLD_NAME" env-default:"Family"`
}

// MustLoad reads configPath when it exists and falls back to the
// environment when it does not. Any other failure is fatal.
func MustLoad(configPath string) Config {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read env: %s", err)
		}
		return cfg
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				log.Fatalf("cannot read env: %s", err)
			}
			return cfg
		}
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}

	return cfg
}
