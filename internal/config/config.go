// Package config loads the service configuration from a TOML file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full service configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	DB      DBConfig      `toml:"db"`
	Auth    AuthConfig    `toml:"auth"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// DBConfig configures the SQLite store.
type DBConfig struct {
	Dir string `toml:"dir"`
}

// AuthConfig configures the bearer-token role gate. Disabled is meant for
// local development only.
type AuthConfig struct {
	Secret   string `toml:"secret"`
	Disabled bool   `toml:"disabled"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `toml:"level"`  // trace, debug, info, warn, error
	Format string `toml:"format"` // json, console
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:           "127.0.0.1",
			Port:           8385,
			TimeoutSeconds: 60,
		},
		DB: DBConfig{
			Dir: defaultDataDir(),
		},
		Auth: AuthConfig{},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads the config file at path over the defaults. A missing file is
// not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	return cfg, nil
}

// DefaultPath is the conventional config file location.
func DefaultPath() string {
	if env := os.Getenv("ASETLEDGER_HOME"); env != "" {
		return filepath.Join(env, "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".asetledger", "config.toml")
}

func defaultDataDir() string {
	if env := os.Getenv("ASETLEDGER_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".asetledger")
}
