// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads, validates, and watches flightdeck configuration.
//
// Configuration lives in ~/.flightdeck/config.toml. Absent files fall back
// to built-in defaults, FLIGHTDECK_* environment variables override loaded
// values, and a fsnotify-based Watcher delivers validated reloads while the
// program runs.
package config
