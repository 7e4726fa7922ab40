package config

import (
	"fmt"
	"os"
	"path/filepath"

	env "github.com/netflix/go-env"
)

// Config holds the external knobs of the tool: where the database lives,
// where deleted files are staged, and how wide the hashing pool is. Values
// come from the environment and may be overridden by command-line flags.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `env:"DUPFINDER_DB"`
	// TrashDir is where deleted duplicates are moved.
	TrashDir string `env:"DUPFINDER_TRASH,default=./Trash"`
	// Workers is the hashing worker-pool size.
	Workers int `env:"DUPFINDER_WORKERS,default=8"`
}

// Load reads configuration from environment variables and applies defaults.
func Load() (*Config, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".dupfinder", "images.db")
	}

	validate(&cfg)
	return &cfg, nil
}

// validate adjusts values to safe ranges
func validate(cfg *Config) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Workers > 64 {
		cfg.Workers = 64
	}
	if cfg.TrashDir == "" {
		cfg.TrashDir = "./Trash"
	}
}
