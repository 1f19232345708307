// flightdeck - a terminal interface for flight log analysis chat.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/flightdeck-tui/internal/api"
	appchat "github.com/jeranaias/flightdeck-tui/internal/chat"
	"github.com/jeranaias/flightdeck-tui/internal/config"
	"github.com/jeranaias/flightdeck-tui/internal/logging"
	"github.com/jeranaias/flightdeck-tui/internal/model"
	uichat "github.com/jeranaias/flightdeck-tui/internal/ui/chat"
	"github.com/jeranaias/flightdeck-tui/internal/ui/styles"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	var (
		configPath  = flag.String("config", "", "path to config file (default ~/.flightdeck/config.toml)")
		serverURL   = flag.String("server", "", "analysis service URL (overrides config)")
		debug       = flag.Bool("debug", false, "enable debug logging")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("flightdeck %s\n", version)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *debug {
		cfg.Logging.Debug = true
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Init(logPath, cfg.Logging.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open log file: %v\n", err)
		os.Exit(1)
	}

	logging.L().Info("flightdeck starting", "version", version, "server", cfg.Server.URL)

	// Wire the application core.
	client := api.NewClientWithConfig(cfg.APIConfig())
	store := model.NewStore()
	sessions := appchat.NewSessionState()
	uploader := appchat.NewUploadController(client, sessions, store)
	asker := appchat.NewController(client, sessions, store)

	theme := styles.NewTheme(cfg.UI.Theme)
	m := uichat.New(uichat.Options{
		Theme:              theme,
		Store:              store,
		Sessions:           sessions,
		Uploader:           uploader,
		Asker:              asker,
		Client:             client,
		SuggestedQuestions: cfg.UI.SuggestedQuestions,
		Markdown:           cfg.UI.Markdown,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Transcript changes reach the UI through the Bubble Tea loop.
	store.OnChange(func(ev model.Event) {
		p.Send(uichat.StoreEventMsg{Event: ev})
	})

	// Hot-reload the server URL when the config file changes on disk.
	if watchPath, pathErr := resolveConfigPath(*configPath); pathErr == nil {
		watcher, watchErr := config.NewWatcher(watchPath, func(next *config.Config) {
			client.SetBaseURL(next.APIConfig().BaseURL)
		})
		if watchErr == nil {
			if err := watcher.Watch(); err != nil {
				logging.L().Warn("config watch disabled", "err", err)
			} else {
				defer watcher.Close()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return config.Path()
}
