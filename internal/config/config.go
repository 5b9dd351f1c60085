// Package config loads the application configuration from a YAML file
// with environment overrides, and can watch the file for changes.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	yaml "go.yaml.in/yaml/v3"
)

// Calendar holds the optional Google Calendar sync settings.
type Calendar struct {
	Enabled           bool   `yaml:"enabled"`
	CalendarID        string `yaml:"calendar_id"`
	ClientSecretsPath string `yaml:"client_secrets_path"`
	TokenPath         string `yaml:"token_path"`
}

// HTTP holds the API server settings.
type HTTP struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the full application configuration. Scheduling knobs
// live in the database, not here; this file covers process-level
// concerns only.
type AppConfig struct {
	DBPath   string   `yaml:"db_path"`
	LogLevel string   `yaml:"log_level"`
	HTTP     HTTP     `yaml:"http"`
	Calendar Calendar `yaml:"calendar"`
}

// Default returns the stock configuration rooted under the user's
// config directory.
func Default() AppConfig {
	base := configDir()
	return AppConfig{
		DBPath:   filepath.Join(base, "timeloom.db"),
		LogLevel: "info",
		HTTP:     HTTP{Addr: "127.0.0.1:8484"},
		Calendar: Calendar{
			CalendarID:        "primary",
			ClientSecretsPath: filepath.Join(base, "credentials.json"),
			TokenPath:         filepath.Join(base, "token.json"),
		},
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "timeloom")
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// Load reads the YAML file at path, falling back to defaults when the
// file does not exist, then applies environment overrides. Unknown
// keys are rejected.
func Load(path string) (AppConfig, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus env is a valid setup.
	case err != nil:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := unmarshalStrict(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// unmarshalStrict decodes with unknown keys rejected, so typos in the
// config file fail loudly instead of being silently ignored.
func unmarshalStrict(data []byte, cfg *AppConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// applyEnv lets TIMELOOM_* variables override file values, which keeps
// containerized deployments configuration-file free.
func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("TIMELOOM_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TIMELOOM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TIMELOOM_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("TIMELOOM_CALENDAR_ID"); v != "" {
		cfg.Calendar.CalendarID = v
	}
	if v := os.Getenv("TIMELOOM_CLIENT_SECRETS"); v != "" {
		cfg.Calendar.ClientSecretsPath = v
		cfg.Calendar.Enabled = true
	}
	if v := os.Getenv("TIMELOOM_TOKEN_FILE"); v != "" {
		cfg.Calendar.TokenPath = v
	}
}
