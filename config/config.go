// Package config loads client settings: built-in defaults, then an
// optional TOML file, then .env / environment overrides. Missing files
// are fine; the defaults point at a local development server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all runtime settings for the console client.
type Config struct {
	ServerURL    string `toml:"server_url"`
	PollInterval int    `toml:"poll_interval_sec"`
	DownloadDir  string `toml:"download_dir"`
	Verbose      bool   `toml:"verbose"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ServerURL:    "http://localhost:5000",
		PollInterval: 5,
		DownloadDir:  "exports",
		Verbose:      false,
	}
}

// PollDuration converts the interval setting.
func (c Config) PollDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

// Load builds the effective config. path may name a TOML file; an empty
// path or a missing file silently keeps the defaults. Environment
// variables (optionally supplied via a .env file in the working
// directory) override file values:
//
//	PARKING_SERVER_URL, PARKING_POLL_INTERVAL_SEC,
//	PARKING_DOWNLOAD_DIR, PARKING_VERBOSE
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// keep defaults
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	if v := os.Getenv("PARKING_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("PARKING_POLL_INTERVAL_SEC"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid PARKING_POLL_INTERVAL_SEC: %q", v)
		}
		cfg.PollInterval = n
	}
	if v := os.Getenv("PARKING_DOWNLOAD_DIR"); v != "" {
		cfg.DownloadDir = v
	}
	if v := os.Getenv("PARKING_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid PARKING_VERBOSE: %q", v)
		}
		cfg.Verbose = b
	}

	if cfg.ServerURL == "" {
		return cfg, fmt.Errorf("server_url must not be empty")
	}
	return cfg, nil
}
