// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sse decodes the server-sent-events response stream emitted by the
// flight-log analysis service.
//
// The service terminates answer fragments with newlines and marks payload
// lines with the "data:" field prefix. Blank lines are frame separators and
// comment lines (": ...") are keepalive noise; both are ignored. The decoder
// reads the body incrementally and guarantees that a line is never split
// across chunk boundaries and never delivered twice, regardless of how the
// transport fragments the bytes.
package sse
