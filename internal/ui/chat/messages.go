// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat interface.
// Messages are organized into the following categories:
//   - Transcript: store change notifications and render ticks
//   - Upload: flight log upload lifecycle
//   - Ask: question cycle completion
//   - Server: liveness probe results
//   - Errors: error display and dismissal
package chat

import (
	"time"

	"github.com/jeranaias/flightdeck-tui/internal/model"
)

// =============================================================================
// TRANSCRIPT MESSAGES
// =============================================================================

// StoreEventMsg delivers a transcript store change notification. The main
// program forwards store observer events into the Bubble Tea loop.
type StoreEventMsg struct {
	Event model.Event
}

// RenderTickMsg drives batched transcript re-rendering during streaming.
type RenderTickMsg struct {
	Time time.Time
}

// =============================================================================
// UPLOAD MESSAGES
// =============================================================================

// UploadDoneMsg reports the outcome of a flight log upload.
type UploadDoneMsg struct {
	Path    string
	Session model.Session
	Err     error
}

// =============================================================================
// ASK MESSAGES
// =============================================================================

// AskDoneMsg reports that a question cycle finished. Err is nil on a
// complete answer; failures have already been absorbed into the transcript
// as the fallback message.
type AskDoneMsg struct {
	Err error
}

// =============================================================================
// SERVER MESSAGES
// =============================================================================

// PingResultMsg reports the analysis service liveness probe outcome.
type PingResultMsg struct {
	Reachable bool
	Err       error
}

// =============================================================================
// ERROR MESSAGES
// =============================================================================

// ErrorMsg displays a transient error in the status line.
type ErrorMsg struct {
	Title   string
	Details string
}

// StatusExpireMsg clears a transient status line message.
type StatusExpireMsg struct {
	ID int
}
