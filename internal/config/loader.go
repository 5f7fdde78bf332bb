package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigFile = "./config.yaml"

// Load builds the configuration with ENV taking precedence over YAML,
// and env-default tags filling whatever neither supplies.
//
// CONFIG_PATH names the YAML file; when unset, ./config.yaml is tried.
// A missing default file is fine (ENV + defaults only), a missing
// explicitly named file is an error. The result is validated before
// being returned.
func Load() (*Config, error) {
	path, required := os.Getenv("CONFIG_PATH"), true
	if path == "" {
		path, required = defaultConfigFile, false
	}

	var cfg Config
	err := cleanenv.ReadConfig(path, &cfg)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !required:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}
