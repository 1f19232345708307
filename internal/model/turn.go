// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for flight-log chat sessions.
package model

import (
	"strings"
	"time"

	"github.com/jeranaias/flightdeck-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Analyst"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// STATUS TYPE
// =============================================================================

// Status represents the lifecycle state of a turn.
//
// User turns are created StatusComplete and never change. Assistant turns
// start StatusPending, move to StatusStreaming when the first fragment
// arrives, and end in exactly one of StatusComplete or StatusFailed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusStreaming Status = "streaming"
	StatusComplete  Status = "complete"
	StatusFailed    Status = "failed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Terminal reports whether the status is a final state. A turn in a terminal
// status never transitions again.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is the opaque handle the analysis service issues for an uploaded
// flight log. The client never interprets ID; it only passes it back on chat
// requests. Exactly one session is live at a time and replacing it orphans
// any conversation held against the previous one.
type Session struct {
	// ID is the server-issued session identifier.
	ID string

	// Rows is the number of telemetry rows parsed from the log.
	Rows int

	// Columns lists the telemetry fields the service extracted.
	Columns []string

	// CreatedAt is when the upload completed on the client side.
	CreatedAt time.Time
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn represents a single entry in the conversation transcript.
//
// Content is buffered in a strings.Builder so that per-fragment appends
// during streaming stay linear.
type Turn struct {
	// ID is unique and strictly increasing in append order. Assignment never
	// depends on wall-clock time, so turns created in the same instant still
	// get distinct ids.
	ID        int64
	Role      Role
	CreatedAt time.Time

	status  Status
	content strings.Builder
}

// Status returns the turn's current lifecycle status.
func (t *Turn) Status() Status {
	return t.status
}

// Content returns the accumulated content.
func (t *Turn) Content() string {
	return t.content.String()
}

// IsEmpty reports whether the turn has no content yet.
func (t *Turn) IsEmpty() bool {
	return t.content.Len() == 0
}

// Streaming reports whether the turn is still receiving fragments.
func (t *Turn) Streaming() bool {
	return t.status == StatusPending || t.status == StatusStreaming
}

// Preview returns a truncated preview of the turn content.
// Uses rune-based truncation to handle Unicode correctly.
func (t *Turn) Preview(maxLen int) string {
	return util.TruncateRunes(util.FirstLine(t.Content()), maxLen)
}

// appendContent adds a fragment to the content buffer.
func (t *Turn) appendContent(delta string) {
	t.content.WriteString(delta)
}

// setContent replaces the content buffer wholesale.
func (t *Turn) setContent(s string) {
	t.content.Reset()
	t.content.WriteString(s)
}
