// Package config reads the runtime settings from TIMEWARD_* environment
// variables. Paths left empty fall back to files under the data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Save backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds every setting the binary needs. The engine packages never
// see it; cmd/timeward hands the relevant parts down.
type Config struct {
	DataDir     string `env:"TIMEWARD_HOME"`
	SaveBackend string `env:"TIMEWARD_SAVE_BACKEND" envDefault:"file"`
	SavePath    string `env:"TIMEWARD_SAVE_PATH"`
	SaveSlot    string `env:"TIMEWARD_SAVE_SLOT" envDefault:"quicksave"`
	WorldDir    string `env:"TIMEWARD_WORLD_DIR"`
	LogLevel    string `env:"TIMEWARD_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"TIMEWARD_LOG_FORMAT" envDefault:"text"`
	LogFile     string `env:"TIMEWARD_LOG_FILE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment, fills in default paths and checks the
// enumerated settings.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("locating home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".timeward")
	}
	cfg.SaveBackend = strings.ToLower(cfg.SaveBackend)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if cfg.SavePath == "" {
		switch cfg.SaveBackend {
		case BackendSQLite:
			cfg.SavePath = filepath.Join(cfg.DataDir, "saves.db")
		default:
			cfg.SavePath = filepath.Join(cfg.DataDir, "save_game.json")
		}
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "timeward.log")
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.SaveBackend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("TIMEWARD_SAVE_BACKEND: unknown backend %q (want %s or %s)", c.SaveBackend, BackendFile, BackendSQLite)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("TIMEWARD_LOG_FORMAT: unknown format %q (want text or json)", c.LogFormat)
	}
	if c.SaveBackend == BackendSQLite && c.SaveSlot == "" {
		return fmt.Errorf("TIMEWARD_SAVE_SLOT must not be empty for the sqlite backend")
	}
	return nil
}
