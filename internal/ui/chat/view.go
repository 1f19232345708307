// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains all rendering logic for the chat interface: the main
// view layout, transcript rendering with markdown for completed answers,
// the header, input area, status bar, and the help overlay.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/flightdeck-tui/internal/model"
	"github.com/jeranaias/flightdeck-tui/internal/util"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// markdownRenderer wraps glamour for completed assistant answers. Streaming
// turns are shown raw; rendering partial markdown flickers badly.
type markdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

func newMarkdownRenderer(width int) *markdownRenderer {
	mr := &markdownRenderer{width: width}
	mr.rebuild()
	return mr
}

func (mr *markdownRenderer) rebuild() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(mr.width),
	)
	if err != nil {
		mr.renderer = nil
		return
	}
	mr.renderer = r
}

// SetWidth updates the word wrap width, rebuilding the renderer.
func (mr *markdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if width == mr.width {
		return
	}
	mr.width = width
	mr.rebuild()
}

// Render renders markdown, falling back to the raw text on error.
func (mr *markdownRenderer) Render(text string) string {
	if mr.renderer == nil {
		return text
	}
	out, err := mr.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// =============================================================================
// MAIN RENDER
// =============================================================================

// renderChat renders the complete chat view.
// Layout: header (1 line) + transcript (viewport) + input (3 lines) + status (1 line).
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	header := m.renderHeader()
	input := m.renderInput()
	status := m.renderStatusBar()

	availableHeight := m.height - lipgloss.Height(header) - lipgloss.Height(input) - lipgloss.Height(status)
	if availableHeight < 1 {
		availableHeight = 1
	}

	transcript := m.viewport.View()
	if lipgloss.Height(transcript) != availableHeight {
		transcript = lipgloss.NewStyle().
			Height(availableHeight).
			MaxHeight(availableHeight).
			Width(m.width).
			Render(transcript)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		transcript,
		input,
		status,
	)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript renders the full conversation for the viewport.
func (m Model) renderTranscript() string {
	turns := m.store.Turns()
	if len(turns) == 0 {
		return m.renderWelcome()
	}

	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderTurn(turn))
	}

	if m.showSuggestions {
		b.WriteString("\n\n")
		b.WriteString(m.renderSuggestions())
	}

	return b.String()
}

// renderTurn renders a single transcript turn with its role label.
func (m Model) renderTurn(turn model.TurnView) string {
	var label string
	switch turn.Role {
	case model.RoleUser:
		label = m.theme.UserLabel.Render(turn.Role.DisplayName())
	case model.RoleAssistant:
		label = m.theme.AssistantLabel.Render(turn.Role.DisplayName())
	default:
		label = m.theme.SystemLabel.Render(turn.Role.DisplayName())
	}

	ts := m.theme.Timestamp.Render(turn.CreatedAt.Format("15:04:05"))
	head := label + " " + ts

	body := turn.Content
	switch turn.Status {
	case model.StatusPending:
		body = m.theme.ThinkingText.Render(m.spinner.View() + " thinking...")
	case model.StatusStreaming:
		body = m.theme.MessageBody.Render(body) + m.spinner.View()
	case model.StatusFailed:
		body = m.theme.FailedBody.Render(body)
	default:
		if turn.Role == model.RoleAssistant && m.markdown != nil {
			body = m.markdown.Render(body)
		} else {
			body = m.theme.MessageBody.Render(body)
		}
	}

	return head + "\n" + body
}

// renderSuggestions renders the numbered starter questions.
func (m Model) renderSuggestions() string {
	var b strings.Builder
	b.WriteString(m.theme.Suggestion.Render("Some questions to get started:"))
	for i, q := range m.suggestions {
		b.WriteString("\n  ")
		b.WriteString(m.theme.SuggestionKey.Render(fmt.Sprintf("[%d]", i+1)))
		b.WriteString(" ")
		b.WriteString(m.theme.Suggestion.Render(q))
	}
	return b.String()
}

// renderWelcome renders the empty-transcript welcome box.
func (m Model) renderWelcome() string {
	logo := m.theme.WelcomeLogo.Render("flightdeck")
	info := m.theme.WelcomeInfo.Render(
		"Upload a flight log and ask questions about it.\n\n" +
			"  /upload <path>   upload a .bin or .tlog flight log\n" +
			"  /session         show the active session\n" +
			"  /help            all commands and keys\n" +
			"  /quit            exit")
	box := m.theme.WelcomeBox.Render(logo + "\n\n" + info)

	return lipgloss.Place(
		m.viewport.Width, m.viewport.Height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

// =============================================================================
// CHROME
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("flightdeck")

	var right string
	if session, ok := m.sessions.Current(); ok {
		right = m.theme.HeaderInfo.Render(
			fmt.Sprintf("session %s · %d rows", shortID(session.ID), session.Rows))
	} else {
		right = m.theme.HeaderInfo.Render("no flight log loaded")
	}

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := title + strings.Repeat(" ", gap) + right
	return m.theme.Header.Width(m.width).Render(line)
}

func (m Model) renderInput() string {
	counter := m.theme.CharCount.Render(fmt.Sprintf("%d/%d", len(m.input.Value()), 4096))
	line := m.input.View()
	gap := m.width - lipgloss.Width(line) - lipgloss.Width(counter) - 2
	if gap < 1 {
		return m.theme.InputContainer.Width(m.width).Render(line)
	}
	return m.theme.InputContainer.Width(m.width).Render(line + strings.Repeat(" ", gap) + counter)
}

func (m Model) renderStatusBar() string {
	// Keep the transient message inside the columns the shortcuts leave free.
	msgWidth := m.width - 24
	if msgWidth < 10 {
		msgWidth = 10
	}

	var left string
	switch {
	case m.statusMsg != "" && m.statusIsErr:
		left = m.theme.StatusError.Render(util.TruncateWidth(m.statusMsg, msgWidth))
	case m.statusMsg != "":
		left = m.theme.StatusConnected.Render(util.TruncateWidth(m.statusMsg, msgWidth))
	case m.state == StateUploading:
		left = m.theme.StatusBusy.Render(m.spinner.View() + " uploading...")
	case m.state == StateStreaming:
		left = m.theme.StatusBusy.Render(m.spinner.View() + " answering... (Esc to cancel)")
	case m.pingChecked && !m.serverUp:
		left = m.theme.StatusError.Render("service unreachable")
	case m.pingChecked:
		left = m.theme.StatusConnected.Render("connected")
	default:
		left = m.theme.ShortcutDesc.Render("checking service...")
	}

	right := m.theme.ShortcutKey.Render("C-h") + m.theme.ShortcutDesc.Render(" help  ") +
		m.theme.ShortcutKey.Render("C-q") + m.theme.ShortcutDesc.Render(" quit")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderHelpOverlay renders the full-screen help view.
func (m Model) renderHelpOverlay() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("flightdeck help"))
	b.WriteString("\n\n")

	b.WriteString(m.theme.SystemLabel.Render("Commands"))
	b.WriteString("\n")
	commands := [][2]string{
		{"/upload <path>", "upload a flight log (.bin, .tlog)"},
		{"/session", "show the active session details"},
		{"/questions", "show starter questions again"},
		{"/ping", "probe the analysis service"},
		{"/help", "this overlay"},
		{"/quit", "exit flightdeck"},
	}
	for _, c := range commands {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			m.theme.ShortcutKey.Render(fmt.Sprintf("%-16s", c[0])),
			m.theme.ShortcutDesc.Render(c[1])))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.SystemLabel.Render("Keys"))
	b.WriteString("\n")
	bindings := []key.Binding{
		m.keyMap.Submit,
		m.keyMap.Cancel,
		m.keyMap.Up,
		m.keyMap.Down,
		m.keyMap.PageUp,
		m.keyMap.PageDown,
		m.keyMap.Home,
		m.keyMap.End,
		m.keyMap.Help,
		m.keyMap.Quit,
	}
	keys := make([][2]string, 0, len(bindings)+1)
	for _, binding := range bindings {
		h := binding.Help()
		keys = append(keys, [2]string{h.Key, h.Desc})
	}
	keys = append(keys, [2]string{"1-4", "pick a starter question"})
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			m.theme.ShortcutKey.Render(fmt.Sprintf("%-20s", k[0])),
			m.theme.ShortcutDesc.Render(k[1])))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.ShortcutDesc.Render("press any key to close"))

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		m.theme.WelcomeBox.Render(b.String()),
	)
}

// shortID shortens a session id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
