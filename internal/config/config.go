// Package config loads the client configuration: the three backend base
// URLs and the transport timeout, from an optional YAML file with
// environment overrides on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries the endpoints of the three backend services.
type Config struct {
	Auth    ServiceConfig `yaml:"auth"`
	Flight  ServiceConfig `yaml:"flight"`
	Booking ServiceConfig `yaml:"booking"`

	// TimeoutSeconds bounds every request; there is no retry and no
	// cancellation beyond this.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ServiceConfig is one backend endpoint.
type ServiceConfig struct {
	URL string `yaml:"url"`
}

// Timeout returns the transport timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns the configuration used when no file and no environment
// overrides are present: the backends on their conventional local ports.
func Default() Config {
	return Config{
		Auth:           ServiceConfig{URL: "http://localhost:8080"},
		Flight:         ServiceConfig{URL: "http://localhost:8081"},
		Booking:        ServiceConfig{URL: "http://localhost:8082"},
		TimeoutSeconds: 30,
	}
}

// DefaultPath returns ~/.skyfare/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".skyfare", "config.yaml"), nil
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (a missing file is not an error), then SKYFARE_* environment
// variables. A file that exists but fails to parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// No file: defaults + env.
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = Default().TimeoutSeconds
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SKYFARE_AUTH_URL")); v != "" {
		cfg.Auth.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("SKYFARE_FLIGHT_URL")); v != "" {
		cfg.Flight.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("SKYFARE_BOOKING_URL")); v != "" {
		cfg.Booking.URL = v
	}
}
