// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the application logger.
//
// The TUI owns stdout, so log output goes to a file under the flightdeck
// home directory (~/.flightdeck/flightdeck.log). Packages obtain the shared
// logger with L(); before Init it discards everything, which keeps tests
// quiet without any setup.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu     sync.Mutex
	logger = log.New(io.Discard)
)

// L returns the shared application logger.
func L() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Init routes log output to the given file and sets the level. Passing an
// empty path logs under the default flightdeck home directory.
func Init(path string, debug bool) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, ".flightdeck", "flightdeck.log")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	opts := log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	}
	if debug {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}

	mu.Lock()
	logger = log.NewWithOptions(f, opts)
	mu.Unlock()
	return nil
}
