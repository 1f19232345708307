// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file implements the slash commands available from the input line.
package chat

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	appchat "github.com/jeranaias/flightdeck-tui/internal/chat"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleCommand dispatches a /command entered on the input line.
func (m Model) handleCommand(text string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(text)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "/quit", "/exit":
		return m, tea.Quit

	case "/help":
		m.showHelp = true
		return m, nil

	case "/upload":
		if len(args) == 0 {
			return m.statusError("Usage: /upload <path-to-flight-log>")
		}
		path := strings.Join(args, " ")
		if !appchat.KnownLogExtension(path) {
			// Warn but proceed; the service decides what it can parse.
			logCmd := func() tea.Msg {
				return ErrorMsg{Title: "Note", Details: "unrecognized log extension, uploading anyway"}
			}
			next, upCmd := m.startUpload(path)
			return next, tea.Batch(upCmd, logCmd)
		}
		return m.startUpload(path)

	case "/session":
		session, ok := m.sessions.Current()
		if !ok {
			return m.statusError("No active session. Upload a flight log first.")
		}
		info := fmt.Sprintf("Session %s: %d rows, %d columns",
			session.ID, session.Rows, len(session.Columns))
		return m.setStatus(info, false)

	case "/ping":
		return m, m.pingCmd()

	case "/questions":
		if _, ok := m.sessions.Current(); !ok {
			return m.statusError("No active session. Upload a flight log first.")
		}
		m.showSuggestions = true
		return m, nil

	default:
		return m.statusError("Unknown command: " + cmd + " (try /help)")
	}
}

func (m Model) statusError(text string) (tea.Model, tea.Cmd) {
	return m.setStatus(text, true)
}
