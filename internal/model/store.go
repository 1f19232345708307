// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for flight-log chat sessions.
package model

import (
	"sync"
	"time"
)

// =============================================================================
// CHANGE EVENTS
// =============================================================================

// EventKind classifies a store change notification.
type EventKind int

const (
	// EventAppended fires when a new turn is added to the transcript.
	EventAppended EventKind = iota
	// EventMutated fires when content is appended to or replaces a turn.
	EventMutated
	// EventFinalized fires when a turn reaches a terminal status.
	EventFinalized
)

// Event describes a single change to the store. Observers receive events in
// the order the mutations were applied.
type Event struct {
	Kind   EventKind
	TurnID int64
	Role   Role
	Status Status
}

// Observer is a callback registered with OnChange. Observers must not block;
// they run synchronously on the mutating goroutine.
type Observer func(Event)

// =============================================================================
// STORE
// =============================================================================

// Store is an ordered, append-only sequence of conversation turns.
//
// Turns are never removed; the transcript only grows for the life of the
// program. Ids are assigned from an in-memory counter, so they are unique and
// strictly increasing even when two turns are created within the same
// millisecond.
//
// The Store is safe for concurrent use: streaming happens in a goroutine
// while rendering reads from the Bubble Tea loop.
type Store struct {
	mu        sync.RWMutex
	turns     []*Turn
	byID      map[int64]*Turn
	nextID    int64
	observers []Observer
}

// NewStore creates an empty transcript store.
func NewStore() *Store {
	return &Store{
		byID: make(map[int64]*Turn),
	}
}

// OnChange registers an observer for store change events.
func (s *Store) OnChange(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Append creates and appends a new turn, returning its id.
//
// User and system turns are complete at creation: their content is fixed.
// Assistant turns start pending with an empty content buffer that streaming
// fills in via Mutate.
func (s *Store) Append(role Role, content string) *Turn {
	s.mu.Lock()

	s.nextID++
	turn := &Turn{
		ID:        s.nextID,
		Role:      role,
		CreatedAt: time.Now(),
		status:    StatusComplete,
	}
	if role == RoleAssistant {
		turn.status = StatusPending
	}
	turn.appendContent(content)

	s.turns = append(s.turns, turn)
	s.byID[turn.ID] = turn
	ev := Event{Kind: EventAppended, TurnID: turn.ID, Role: role, Status: turn.status}

	s.mu.Unlock()
	s.notify(ev)
	return turn
}

// Mutate appends delta to the identified turn's content buffer. A pending
// turn moves to streaming on its first fragment.
//
// Unknown ids and turns already in a terminal status are ignored; the only
// expected caller is the stream decoder operating on a turn it just created,
// and a stray fragment must not take down the conversation.
func (s *Store) Mutate(id int64, delta string) bool {
	s.mu.Lock()

	turn, ok := s.byID[id]
	if !ok || turn.status.Terminal() {
		s.mu.Unlock()
		return false
	}
	turn.appendContent(delta)
	if turn.status == StatusPending {
		turn.status = StatusStreaming
	}
	ev := Event{Kind: EventMutated, TurnID: id, Role: turn.Role, Status: turn.status}

	s.mu.Unlock()
	s.notify(ev)
	return true
}

// SetContent replaces the identified turn's content wholesale. Used by the
// failure path, which discards partial fragments in favor of a fixed
// fallback message. Unknown ids and terminal turns are ignored, as in Mutate.
func (s *Store) SetContent(id int64, content string) bool {
	s.mu.Lock()

	turn, ok := s.byID[id]
	if !ok || turn.status.Terminal() {
		s.mu.Unlock()
		return false
	}
	turn.setContent(content)
	ev := Event{Kind: EventMutated, TurnID: id, Role: turn.Role, Status: turn.status}

	s.mu.Unlock()
	s.notify(ev)
	return true
}

// Finalize moves the identified turn to a terminal status.
//
// Finalizing twice with the same terminal status is an idempotent no-op.
// Any transition away from an already-terminal status, or to a non-terminal
// status, is rejected.
func (s *Store) Finalize(id int64, status Status) bool {
	if !status.Terminal() {
		return false
	}

	s.mu.Lock()

	turn, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	if turn.status.Terminal() {
		s.mu.Unlock()
		return turn.status == status
	}
	turn.status = status
	ev := Event{Kind: EventFinalized, TurnID: id, Role: turn.Role, Status: status}

	s.mu.Unlock()
	s.notify(ev)
	return true
}

// =============================================================================
// READS
// =============================================================================

// TurnView is an immutable snapshot of a turn for rendering.
type TurnView struct {
	ID        int64
	Role      Role
	Status    Status
	Content   string
	CreatedAt time.Time
}

// Get returns a snapshot of the turn with the given id.
func (s *Store) Get(id int64) (TurnView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turn, ok := s.byID[id]
	if !ok {
		return TurnView{}, false
	}
	return snapshot(turn), true
}

// Turns returns snapshots of all turns in append order.
func (s *Store) Turns() []TurnView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]TurnView, len(s.turns))
	for i, turn := range s.turns {
		views[i] = snapshot(turn)
	}
	return views
}

// Len returns the number of turns in the transcript.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Last returns a snapshot of the most recent turn.
func (s *Store) Last() (TurnView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.turns) == 0 {
		return TurnView{}, false
	}
	return snapshot(s.turns[len(s.turns)-1]), true
}

// =============================================================================
// HELPERS
// =============================================================================

func snapshot(t *Turn) TurnView {
	return TurnView{
		ID:        t.ID,
		Role:      t.Role,
		Status:    t.status,
		Content:   t.Content(),
		CreatedAt: t.CreatedAt,
	}
}

func (s *Store) notify(ev Event) {
	s.mu.RLock()
	observers := s.observers
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(ev)
	}
}
