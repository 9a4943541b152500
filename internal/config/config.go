package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration sourced from an optional YAML file
// and environment variables. Environment variables win.
type Config struct {
	Environment string         `yaml:"environment"`
	HTTPPort    string         `yaml:"http_port"`
	Debug       bool           `yaml:"debug"`
	LogDir      string         `yaml:"log_dir"`
	Database    DatabaseConfig `yaml:"database"`
}

// DatabaseConfig selects the store backing the inventory data-access layer.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "mysql"
	DSN    string `yaml:"dsn"`
}

// Load reads the YAML file named by NBACL_CONFIG when set, applies env vars
// and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment: "development",
		HTTPPort:    "8080",
		LogDir:      filepath.Join("data", "logs"),
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    filepath.Join("data", "netbox-acls.db"),
		},
	}

	if path := os.Getenv("NBACL_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Environment = getEnv("NBACL_ENV", cfg.Environment)
	cfg.HTTPPort = getEnv("NBACL_HTTP_PORT", cfg.HTTPPort)
	cfg.LogDir = getEnv("NBACL_LOG_DIR", cfg.LogDir)
	cfg.Database.Driver = getEnv("NBACL_DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("NBACL_DB_DSN", cfg.Database.DSN)
	if v := os.Getenv("NBACL_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse NBACL_DEBUG: %w", err)
		}
		cfg.Debug = debug
	}

	if cfg.Database.Driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0o755); err != nil {
			return Config{}, fmt.Errorf("ensure data directory: %w", err)
		}
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
