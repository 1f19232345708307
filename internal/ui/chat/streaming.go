// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file implements render coalescing for streaming answers. Sentence
// fragments can arrive far faster than a terminal should repaint; the
// coalescer caps transcript re-renders at a fixed frame rate while making
// sure no fragment is left unrendered when the stream settles.
package chat

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// RENDER COALESCER
// =============================================================================

// RenderCoalescer batches transcript repaints during streaming.
// Fragment arrivals mark the transcript dirty; the render tick asks
// ShouldRender, which allows a repaint when either:
// 1. Enough fragments accumulated since the last repaint
// 2. Enough time has passed since the last repaint
//
// Thread-safety: fragment notifications arrive from the streaming
// goroutine while rendering happens in the Bubble Tea loop, so all
// operations are mutex-protected.
type RenderCoalescer struct {
	mu        sync.Mutex
	dirty     int
	lastPaint time.Time

	batchSize   int
	minInterval time.Duration
}

const (
	defaultBatchSize = 8
	defaultMaxFPS    = 30
)

// NewRenderCoalescer creates a coalescer with the default frame cap.
func NewRenderCoalescer() *RenderCoalescer {
	return &RenderCoalescer{
		batchSize:   defaultBatchSize,
		minInterval: time.Second / defaultMaxFPS,
		lastPaint:   time.Now(),
	}
}

// NewRenderCoalescerWithConfig creates a coalescer with custom settings.
func NewRenderCoalescerWithConfig(batchSize, maxFPS int) *RenderCoalescer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if maxFPS <= 0 || maxFPS > 60 {
		maxFPS = defaultMaxFPS
	}
	return &RenderCoalescer{
		batchSize:   batchSize,
		minInterval: time.Second / time.Duration(maxFPS),
		lastPaint:   time.Now(),
	}
}

// Bump records that a fragment arrived and the transcript is stale.
func (rc *RenderCoalescer) Bump() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.dirty++
}

// ShouldRender reports whether a repaint is due, and if so consumes the
// dirty state. Returns false while the transcript is clean or the frame
// cap has not elapsed.
func (rc *RenderCoalescer) ShouldRender() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.dirty == 0 {
		return false
	}
	if rc.dirty < rc.batchSize && time.Since(rc.lastPaint) < rc.minInterval {
		return false
	}

	rc.dirty = 0
	rc.lastPaint = time.Now()
	return true
}

// ForceRender consumes any dirty state regardless of thresholds, reporting
// whether a repaint was actually pending. Call when a stream finishes so
// the final fragments reach the screen.
func (rc *RenderCoalescer) ForceRender() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	pending := rc.dirty > 0
	rc.dirty = 0
	rc.lastPaint = time.Now()
	return pending
}

// Reset clears dirty state without rendering. Use when a stream is
// cancelled or a new one starts.
func (rc *RenderCoalescer) Reset() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.dirty = 0
	rc.lastPaint = time.Now()
}

// Pending returns the number of unrendered fragment notifications.
func (rc *RenderCoalescer) Pending() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.dirty
}

// =============================================================================
// RENDER TICK COMMAND
// =============================================================================

// renderTickCmd creates a tea.Cmd that sends RenderTickMsg at the frame cap.
func renderTickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return RenderTickMsg{Time: t}
	})
}
