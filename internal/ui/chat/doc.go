// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the flightdeck chat view for Bubble Tea.
//
// The view renders the transcript store as a scrollable conversation,
// drives uploads and question cycles through the application controllers,
// and coalesces streaming fragment updates so the terminal repaints at a
// bounded frame rate. Completed answers render through glamour; streaming
// ones stay raw to avoid partial-markdown flicker.
package chat
