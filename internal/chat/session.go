// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat orchestrates the upload and question/answer lifecycle.
package chat

import (
	"sync"

	"github.com/jeranaias/flightdeck-tui/internal/model"
)

// SessionState holds the current analysis session for the life of the
// program. Exactly one session is live at a time; replacing it orphans any
// conversation held against the previous one, since all future chat requests
// address the new session.
//
// A pure holder: it accepts whatever the upload produced without validation.
type SessionState struct {
	mu      sync.RWMutex
	session model.Session
	set     bool
}

// NewSessionState creates an empty session holder.
func NewSessionState() *SessionState {
	return &SessionState{}
}

// Current returns the live session, if any. No session means chat cannot be
// initiated.
func (s *SessionState) Current() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.set
}

// Replace installs a new live session.
func (s *SessionState) Replace(session model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.set = true
}
