// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the flightdeck TUI.
//
// The palette is defined once as Lip Gloss adaptive colors and assembled
// into a Theme of prebuilt styles. Status indicators include ASCII shapes
// alongside color so states stay readable for colorblind users.
package styles
