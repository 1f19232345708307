// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat orchestrates the upload and question/answer lifecycle.
package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/jeranaias/flightdeck-tui/internal/api"
	"github.com/jeranaias/flightdeck-tui/internal/logging"
	"github.com/jeranaias/flightdeck-tui/internal/model"
	"github.com/jeranaias/flightdeck-tui/internal/sse"
)

// Streamer is the slice of the api client the chat controller needs.
type Streamer interface {
	ChatStream(ctx context.Context, sessionID, message string, onFragment sse.FragmentFunc) error
}

// FallbackMessage replaces the assistant turn's content whenever a cycle
// fails after the placeholder was created. Partial fragments already
// received are discarded, matching the reference behavior; see the package
// notes for why that choice is preserved.
const FallbackMessage = "Sorry, I ran into a problem answering that. Please try asking again."

// ErrEmptyMessage rejects questions that are empty after trimming.
var ErrEmptyMessage = &api.ClientError{Type: api.ErrTypeTransport, Message: "message is empty"}

// ErrBusy rejects a question submitted while another cycle is outstanding.
var ErrBusy = &api.ClientError{Type: api.ErrTypeTransport, Message: "an answer is already in progress"}

// =============================================================================
// CYCLE STATE
// =============================================================================

// CycleState tracks one question/answer cycle.
type CycleState int

const (
	// StateIdle: no cycle outstanding; the next Ask is accepted.
	StateIdle CycleState = iota
	// StateAwaitingResponse: the chat request was issued, no fragment yet.
	StateAwaitingResponse
	// StateStreaming: fragments are arriving for the active turn.
	StateStreaming
)

// String returns the state name for logging.
func (s CycleState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// =============================================================================
// CHAT CONTROLLER
// =============================================================================

// Controller runs question/answer cycles against the live session.
//
// One cycle at a time: Ask rejects a second submission while one is
// outstanding. The input affordance should be disabled for the duration, but
// the controller guards the invariant itself.
type Controller struct {
	client   Streamer
	sessions *SessionState
	store    *model.Store

	mu     sync.Mutex
	state  CycleState
	cancel context.CancelFunc
}

// NewController creates a chat controller.
func NewController(client Streamer, sessions *SessionState, store *model.Store) *Controller {
	return &Controller{
		client:   client,
		sessions: sessions,
		store:    store,
	}
}

// State returns the current cycle state.
func (c *Controller) State() CycleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a cycle is outstanding. True exactly while the
// typing indicator should show and the input stay disabled.
func (c *Controller) Busy() bool {
	return c.State() != StateIdle
}

// Cancel aborts the in-flight cycle, if any. The active assistant turn is
// finalized failed through the normal failure path and the input is
// released.
func (c *Controller) Cancel() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Ask runs one question/answer cycle: appends the user turn, creates the
// assistant placeholder, streams fragments into it in arrival order, and
// finalizes it.
//
// Precondition failures (empty text, no session, a cycle already
// outstanding) leave the transcript untouched and return a sentinel error.
// Failures after the placeholder exists are absorbed into the turn - content
// replaced with FallbackMessage, status failed - and the underlying error is
// returned for logging only; the conversation remains usable either way.
// The busy state is released on every exit path.
func (c *Controller) Ask(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	session, ok := c.sessions.Current()
	if !ok {
		return api.ErrNoSession
	}

	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		cancel()
		return ErrBusy
	}
	c.state = StateAwaitingResponse
	c.cancel = cancel
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		c.state = StateIdle
		c.cancel = nil
		c.mu.Unlock()
	}()

	c.store.Append(model.RoleUser, text)
	assistant := c.store.Append(model.RoleAssistant, "")

	logging.L().Debug("chat cycle started", "session", session.ID, "turn", assistant.ID)

	err := c.client.ChatStream(ctx, session.ID, text, func(fragment string) {
		c.markStreaming()
		c.store.Mutate(assistant.ID, fragment)
	})
	if err != nil {
		logging.L().Error("chat cycle failed", "session", session.ID, "turn", assistant.ID, "err", err)
		c.store.SetContent(assistant.ID, FallbackMessage)
		c.store.Finalize(assistant.ID, model.StatusFailed)
		return err
	}

	c.store.Finalize(assistant.ID, model.StatusComplete)
	logging.L().Debug("chat cycle complete", "session", session.ID, "turn", assistant.ID)
	return nil
}

// markStreaming moves AwaitingResponse to Streaming on the first fragment.
func (c *Controller) markStreaming() {
	c.mu.Lock()
	if c.state == StateAwaitingResponse {
		c.state = StateStreaming
	}
	c.mu.Unlock()
}
