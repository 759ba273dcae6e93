// Package config reads the program configuration from the environment.
// An optional .env file is loaded first; variables already set win.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime settings. Command-line flags override these.
type Config struct {
	DBPath       string     `env:"HEMBYGD_DB" envDefault:"hembygdsmuseum.sqlite3"`
	Addr         string     `env:"HEMBYGD_ADDR" envDefault:"127.0.0.1:8080"`
	BackupDir    string     `env:"HEMBYGD_BACKUP_DIR" envDefault:"backup"`
	LogPath      string     `env:"HEMBYGD_LOG"`
	LogLevel     slog.Level `env:"HEMBYGD_LOG_LEVEL" envDefault:"INFO"`
	SeedDefaults bool       `env:"HEMBYGD_SEED_DEFAULTS" envDefault:"true"`
	// Registrar pre-fills the "registered by" field of the registration form.
	Registrar string `env:"HEMBYGD_REGISTRAR"`
}

// Load reads .env files (default ".env"; missing files are ignored) and
// parses the environment into a Config.
func Load(dotenv ...string) (*Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the settings are usable. The UI has no
// authentication, so it may only listen on a loopback address.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("database path must not be empty")
	}
	if c.BackupDir == "" {
		return errors.New("backup directory must not be empty")
	}

	host, _, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Addr, err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("listen address %q is not a loopback address", c.Addr)
	}
	return nil
}
