// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for flightdeck.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - path given on the command line (-config)
//   - ~/.flightdeck/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/flightdeck-tui/internal/api"
	"github.com/jeranaias/flightdeck-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete flightdeck configuration.
type Config struct {
	// Server settings for the analysis service
	Server ServerConfig `toml:"server"`

	// UI settings
	UI UIConfig `toml:"ui"`

	// Logging settings
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig contains analysis-service connection configuration.
type ServerConfig struct {
	// URL is the base URL of the analysis service
	URL string `toml:"url"`
	// TimeoutSecs bounds small requests like the liveness probe
	TimeoutSecs int `toml:"timeout_secs"`
	// UploadTimeoutSecs bounds one complete flight-log upload
	UploadTimeoutSecs int `toml:"upload_timeout_secs"`
	// StreamTimeoutSecs bounds one complete chat cycle
	StreamTimeoutSecs int `toml:"stream_timeout_secs"`
	// ChatRequestsPerMinute is the client-side chat rate limit
	ChatRequestsPerMinute int `toml:"chat_requests_per_minute"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light"
	Theme string `toml:"theme"`
	// Markdown renders completed assistant answers through glamour
	Markdown bool `toml:"markdown"`
	// SuggestedQuestions are the starter questions shown after an upload
	SuggestedQuestions []string `toml:"suggested_questions"`
}

// LoggingConfig contains log output configuration.
type LoggingConfig struct {
	// Path is the log file location (empty = ~/.flightdeck/flightdeck.log)
	Path string `toml:"path"`
	// Debug enables debug-level logging
	Debug bool `toml:"debug"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:                   "http://127.0.0.1:8000",
			TimeoutSecs:           10,
			UploadTimeoutSecs:     120,
			StreamTimeoutSecs:     120,
			ChatRequestsPerMinute: 30,
		},
		UI: UIConfig{
			Theme:    "dark",
			Markdown: true,
			SuggestedQuestions: []string{
				"What was the highest altitude reached?",
				"Were there any GPS signal problems?",
				"How did the battery hold up during the flight?",
				"Summarize this flight for me.",
			},
		},
		Logging: LoggingConfig{},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the flightdeck configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".flightdeck"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file, falling back to
// defaults when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, cfg.Validate()
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Fields absent from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies FLIGHTDECK_* environment variables on top of the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if url := os.Getenv("FLIGHTDECK_SERVER_URL"); url != "" {
		c.Server.URL = url
	}
	if secs := os.Getenv("FLIGHTDECK_STREAM_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil && n > 0 {
			c.Server.StreamTimeoutSecs = n
		}
	}
	if theme := os.Getenv("FLIGHTDECK_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if debug := os.Getenv("FLIGHTDECK_DEBUG"); debug != "" {
		c.Logging.Debug = debug == "1" || strings.EqualFold(debug, "true")
	}
}

// fillDefaults restores defaults for zero-valued numeric fields, so a sparse
// config file does not zero out timeouts.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Server.TimeoutSecs <= 0 {
		c.Server.TimeoutSecs = def.Server.TimeoutSecs
	}
	if c.Server.UploadTimeoutSecs <= 0 {
		c.Server.UploadTimeoutSecs = def.Server.UploadTimeoutSecs
	}
	if c.Server.StreamTimeoutSecs <= 0 {
		c.Server.StreamTimeoutSecs = def.Server.StreamTimeoutSecs
	}
	if c.Server.ChatRequestsPerMinute <= 0 {
		c.Server.ChatRequestsPerMinute = def.Server.ChatRequestsPerMinute
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Server.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("server.url %q is not a valid URL", c.Server.URL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("server.url scheme %q is not supported", parsed.Scheme)
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme %q is not one of dark, light", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to the default config path atomically.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path atomically.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0o600)
}

// =============================================================================
// CONVERSION
// =============================================================================

// APIConfig converts the server section into the api client configuration.
func (c *Config) APIConfig() *api.ClientConfig {
	return &api.ClientConfig{
		BaseURL:               strings.TrimRight(c.Server.URL, "/"),
		Timeout:               time.Duration(c.Server.TimeoutSecs) * time.Second,
		UploadTimeout:         time.Duration(c.Server.UploadTimeoutSecs) * time.Second,
		StreamTimeout:         time.Duration(c.Server.StreamTimeoutSecs) * time.Second,
		ChatRequestsPerMinute: c.Server.ChatRequestsPerMinute,
	}
}

// LogPath returns the resolved log file path.
func (c *Config) LogPath() (string, error) {
	if c.Logging.Path != "" {
		return c.Logging.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "flightdeck.log"), nil
}
