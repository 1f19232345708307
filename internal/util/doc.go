// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across flightdeck.
//
// String helpers truncate by character count or terminal display width,
// never by bytes, so UTF-8 content is safe to cut for status lines and
// previews. File helpers write atomically with fsync so configuration
// saves survive a crash.
//
// # Usage
//
//	// Truncate long strings safely for display
//	display := util.TruncateWidth(longText, 50)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0o644)
package util
