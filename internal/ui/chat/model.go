// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/flightdeck-tui/internal/api"
	appchat "github.com/jeranaias/flightdeck-tui/internal/chat"
	"github.com/jeranaias/flightdeck-tui/internal/logging"
	"github.com/jeranaias/flightdeck-tui/internal/model"
	"github.com/jeranaias/flightdeck-tui/internal/ui/styles"
)

// =============================================================================
// VIEW STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateUploading              // Flight log upload in flight
	StateStreaming              // Receiving a streaming answer
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Transcript
	store *model.Store

	// Controllers
	sessions *appchat.SessionState
	uploader *appchat.UploadController
	asker    *appchat.Controller
	client   *api.Client

	// Streaming render coalescing
	coalescer *RenderCoalescer

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap

	// Server reachability (from the last ping)
	serverUp    bool
	pingChecked bool

	// Transient status line message
	statusMsg   string
	statusIsErr bool
	statusSeq   int

	// Starter questions shown after a successful upload
	suggestions     []string
	showSuggestions bool

	// Help overlay
	showHelp bool

	// Markdown rendering for completed answers
	markdown *markdownRenderer
}

// Options configures a new chat model.
type Options struct {
	Theme              *styles.Theme
	Store              *model.Store
	Sessions           *appchat.SessionState
	Uploader           *appchat.UploadController
	Asker              *appchat.Controller
	Client             *api.Client
	SuggestedQuestions []string
	Markdown           bool
}

// New creates a new chat model.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Upload a flight log with /upload <path> to begin..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	var md *markdownRenderer
	if opts.Markdown {
		md = newMarkdownRenderer(80)
	}

	return Model{
		state:       StateReady,
		theme:       opts.Theme,
		store:       opts.Store,
		sessions:    opts.Sessions,
		uploader:    opts.Uploader,
		asker:       opts.Asker,
		client:      opts.Client,
		coalescer:   NewRenderCoalescer(),
		viewport:    vp,
		input:       ti,
		spinner:     sp,
		keyMap:      DefaultKeyMap(),
		suggestions: opts.SuggestedQuestions,
		markdown:    md,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.pingCmd())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StoreEventMsg:
		return m.handleStoreEvent(msg)

	case RenderTickMsg:
		return m.handleRenderTick(msg)

	case UploadDoneMsg:
		return m.handleUploadDone(msg)

	case AskDoneMsg:
		return m.handleAskDone(msg)

	case PingResultMsg:
		m.pingChecked = true
		m.serverUp = msg.Reachable
		if !msg.Reachable {
			logging.L().Warn("analysis service unreachable", "err", msg.Err)
		}
		return m, nil

	case ErrorMsg:
		return m.setStatus(msg.Title+": "+msg.Details, true)

	case StatusExpireMsg:
		if msg.ID == m.statusSeq {
			m.statusMsg = ""
			m.statusIsErr = false
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != StateReady {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	default:
		var cmds []tea.Cmd
		if m.state == StateReady {
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			cmds = append(cmds, inputCmd)
		}
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)
		return m, tea.Batch(cmds...)
	}
}

// View renders the chat view.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Layout: header + viewport + input area + status bar.
	const (
		headerHeight    = 1
		inputAreaHeight = 3
		statusBarHeight = 1
	)
	viewportHeight := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	if m.width < 1 {
		m.viewport.Width = 1
	} else {
		m.viewport.Width = m.width
	}
	m.viewport.Height = viewportHeight

	const promptLen = 2
	inputWidth := m.width - 4 - promptLen
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	if m.theme != nil {
		m.theme.SetSize(m.width, m.height)
	}
	if m.markdown != nil {
		m.markdown.SetWidth(m.width - 4)
	}

	m.updateViewport()

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, vpCmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Emergency exit works in every state.
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if key.Matches(msg, m.keyMap.Help) {
		m.showHelp = true
		return m, nil
	}

	if m.state == StateStreaming {
		if key.Matches(msg, m.keyMap.Cancel) {
			m.asker.Cancel()
			return m.setStatus("Answer cancelled", false)
		}
		// Allow scrolling while the answer streams in.
		return m.handleNavigationKeys(msg)
	}

	if m.state == StateUploading {
		return m.handleNavigationKeys(msg)
	}

	// Ready state.
	switch {
	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown),
		key.Matches(msg, m.keyMap.Home), key.Matches(msg, m.keyMap.End):
		return m.handleNavigationKeys(msg)

	case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down):
		// Arrow keys scroll only while the input line is empty.
		if m.input.Value() == "" {
			return m.handleNavigationKeys(msg)
		}

	case key.Matches(msg, m.keyMap.Submit):
		if strings.TrimSpace(m.input.Value()) != "" {
			return m.submitInput()
		}
		return m, nil
	}

	keyStr := msg.String()
	if len(keyStr) == 1 && keyStr[0] >= '1' && keyStr[0] <= '4' {
		// Pick a starter question by number when suggestions are showing
		// and the input line is empty.
		if m.showSuggestions && m.input.Value() == "" {
			idx := int(keyStr[0] - '1')
			if idx < len(m.suggestions) {
				m.showSuggestions = false
				return m.startAsk(m.suggestions[idx])
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleNavigationKeys handles viewport navigation keys.
func (m Model) handleNavigationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
	case key.Matches(msg, m.keyMap.Home):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keyMap.End):
		m.viewport.GotoBottom()
	}
	return m, nil
}

func (m Model) handleStoreEvent(msg StoreEventMsg) (tea.Model, tea.Cmd) {
	switch msg.Event.Kind {
	case model.EventMutated:
		// Streaming fragments are coalesced; the render tick repaints.
		m.coalescer.Bump()
		return m, nil
	default:
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil
	}
}

func (m Model) handleRenderTick(msg RenderTickMsg) (tea.Model, tea.Cmd) {
	if m.state != StateStreaming {
		return m, nil
	}
	if m.coalescer.ShouldRender() {
		m.updateViewport()
		m.viewport.GotoBottom()
	}
	return m, renderTickCmd()
}

func (m Model) handleUploadDone(msg UploadDoneMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady
	m.input.Focus()

	if msg.Err != nil {
		logging.L().Error("upload failed", "path", msg.Path, "err", msg.Err)
		next, _ := m.setStatus("Upload failed: "+msg.Err.Error(), true)
		nm := next.(Model)
		return nm, tea.Batch(textinput.Blink, nm.statusExpireCmd())
	}

	m.input.Placeholder = "Ask about this flight..."
	m.showSuggestions = len(m.suggestions) > 0
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, textinput.Blink
}

func (m Model) handleAskDone(msg AskDoneMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady
	m.input.Focus()
	m.coalescer.ForceRender()
	m.updateViewport()
	m.viewport.GotoBottom()

	if msg.Err != nil {
		// The transcript already shows the fallback answer; the log keeps
		// the real cause.
		logging.L().Error("question cycle failed", "err", msg.Err)
	}
	return m, textinput.Blink
}

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()

	if strings.HasPrefix(text, "/") {
		return m.handleCommand(text)
	}
	m.showSuggestions = false
	return m.startAsk(text)
}

// startAsk kicks off a question cycle against the current session.
func (m Model) startAsk(text string) (tea.Model, tea.Cmd) {
	if _, ok := m.sessions.Current(); !ok {
		next, _ := m.setStatus("No flight log uploaded yet. Use /upload <path> first.", true)
		nm := next.(Model)
		return nm, nm.statusExpireCmd()
	}

	m.state = StateStreaming
	m.showSuggestions = false
	m.coalescer.Reset()

	asker := m.asker
	askCmd := func() tea.Msg {
		err := asker.Ask(context.Background(), text)
		return AskDoneMsg{Err: err}
	}
	return m, tea.Batch(m.spinner.Tick, renderTickCmd(), askCmd)
}

// startUpload kicks off a flight log upload.
func (m Model) startUpload(path string) (tea.Model, tea.Cmd) {
	m.state = StateUploading

	uploader := m.uploader
	uploadCmd := func() tea.Msg {
		session, err := uploader.Submit(context.Background(), path)
		return UploadDoneMsg{Path: path, Session: session, Err: err}
	}
	return m, tea.Batch(m.spinner.Tick, uploadCmd)
}

// pingCmd probes the analysis service.
func (m Model) pingCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := client.Ping(ctx)
		return PingResultMsg{Reachable: err == nil, Err: err}
	}
}

// =============================================================================
// STATUS LINE
// =============================================================================

func (m Model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.statusMsg = text
	m.statusIsErr = isErr
	m.statusSeq++
	return m, m.statusExpireCmd()
}

func (m Model) statusExpireCmd() tea.Cmd {
	id := m.statusSeq
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return StatusExpireMsg{ID: id}
	})
}

// =============================================================================
// VIEWPORT UPDATE
// =============================================================================

func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderTranscript())
}
