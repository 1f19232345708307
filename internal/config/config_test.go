// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Server.URL != "http://127.0.0.1:8000" {
		t.Errorf("unexpected default server URL %q", cfg.Server.URL)
	}
	if len(cfg.UI.SuggestedQuestions) == 0 {
		t.Error("expected default suggested questions")
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
url = "http://analysis.local:9000"
stream_timeout_secs = 300

[ui]
theme = "light"
markdown = false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Server.URL != "http://analysis.local:9000" {
		t.Errorf("server URL = %q", cfg.Server.URL)
	}
	if cfg.Server.StreamTimeoutSecs != 300 {
		t.Errorf("stream timeout = %d, want 300", cfg.Server.StreamTimeoutSecs)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q, want light", cfg.UI.Theme)
	}
	if cfg.UI.Markdown {
		t.Error("markdown should be disabled")
	}
	// Fields absent from the file keep defaults.
	if cfg.Server.UploadTimeoutSecs != 120 {
		t.Errorf("upload timeout = %d, want default 120", cfg.Server.UploadTimeoutSecs)
	}
}

func TestLoadFromPathSparseFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Server.TimeoutSecs != Default().Server.TimeoutSecs {
		t.Errorf("timeout = %d, want default", cfg.Server.TimeoutSecs)
	}
	if cfg.Server.ChatRequestsPerMinute != Default().Server.ChatRequestsPerMinute {
		t.Errorf("rate = %d, want default", cfg.Server.ChatRequestsPerMinute)
	}
}

func TestLoadFromPathInvalidURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nurl = \"not a url\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected validation error for invalid server URL")
	}
}

func TestValidateRejectsBadTheme(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "solarized"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown theme")
	}
}

func TestValidateRejectsBadScheme(t *testing.T) {
	cfg := Default()
	cfg.Server.URL = "ftp://example.com"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for non-http scheme")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("FLIGHTDECK_SERVER_URL", "http://override.local:7000")
	t.Setenv("FLIGHTDECK_THEME", "light")
	t.Setenv("FLIGHTDECK_DEBUG", "true")
	t.Setenv("FLIGHTDECK_STREAM_TIMEOUT_SECS", "90")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Server.URL != "http://override.local:7000" {
		t.Errorf("server URL = %q", cfg.Server.URL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	if !cfg.Logging.Debug {
		t.Error("debug should be enabled")
	}
	if cfg.Server.StreamTimeoutSecs != 90 {
		t.Errorf("stream timeout = %d", cfg.Server.StreamTimeoutSecs)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Server.URL = "http://saved.local:8080"
	cfg.UI.Theme = "light"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Server.URL != cfg.Server.URL {
		t.Errorf("server URL = %q, want %q", loaded.Server.URL, cfg.Server.URL)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("theme = %q, want light", loaded.UI.Theme)
	}
}

func TestAPIConfigConversion(t *testing.T) {
	cfg := Default()
	cfg.Server.URL = "http://analysis.local:9000/"
	cfg.Server.StreamTimeoutSecs = 45

	ac := cfg.APIConfig()
	if ac.BaseURL != "http://analysis.local:9000" {
		t.Errorf("base URL = %q, trailing slash should be trimmed", ac.BaseURL)
	}
	if ac.StreamTimeout != 45*time.Second {
		t.Errorf("stream timeout = %v", ac.StreamTimeout)
	}
	if ac.ChatRequestsPerMinute != cfg.Server.ChatRequestsPerMinute {
		t.Errorf("rate = %d", ac.ChatRequestsPerMinute)
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nurl = \"http://first.local:8000\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()
	w.debounce = 10 * time.Millisecond

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("[server]\nurl = \"http://second.local:8000\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Server.URL != "http://second.local:8000" {
			t.Errorf("reloaded URL = %q", cfg.Server.URL)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
