// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"testing"
	"time"
)

func TestRenderCoalescerCleanNeverRenders(t *testing.T) {
	rc := NewRenderCoalescer()
	if rc.ShouldRender() {
		t.Error("clean coalescer should not request a render")
	}
	if rc.ForceRender() {
		t.Error("clean coalescer should report nothing pending on force")
	}
}

func TestRenderCoalescerBatchThreshold(t *testing.T) {
	rc := NewRenderCoalescerWithConfig(3, 1) // 1fps so only the batch triggers
	rc.Bump()
	rc.Bump()
	if rc.ShouldRender() {
		t.Error("should not render below the batch threshold")
	}
	rc.Bump()
	if !rc.ShouldRender() {
		t.Error("should render once the batch threshold is reached")
	}
	// Consumed: next check is clean again.
	if rc.ShouldRender() {
		t.Error("render should consume dirty state")
	}
}

func TestRenderCoalescerTimeThreshold(t *testing.T) {
	rc := NewRenderCoalescerWithConfig(1000, 60)
	rc.Bump()
	if rc.ShouldRender() {
		t.Error("single fragment should wait for the frame interval")
	}
	time.Sleep(20 * time.Millisecond)
	if !rc.ShouldRender() {
		t.Error("should render after the frame interval elapses")
	}
}

func TestRenderCoalescerForceRender(t *testing.T) {
	rc := NewRenderCoalescerWithConfig(1000, 1)
	rc.Bump()
	if !rc.ForceRender() {
		t.Error("force should report the pending fragment")
	}
	if rc.Pending() != 0 {
		t.Errorf("pending = %d after force, want 0", rc.Pending())
	}
}

func TestRenderCoalescerReset(t *testing.T) {
	rc := NewRenderCoalescer()
	rc.Bump()
	rc.Bump()
	rc.Reset()
	if rc.Pending() != 0 {
		t.Errorf("pending = %d after reset, want 0", rc.Pending())
	}
}

func TestRenderCoalescerConcurrentBumps(t *testing.T) {
	rc := NewRenderCoalescerWithConfig(1000000, 1)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				rc.Bump()
			}
		}()
	}
	wg.Wait()
	if rc.Pending() != 8000 {
		t.Errorf("pending = %d, want 8000", rc.Pending())
	}
}

func TestRenderCoalescerConfigBounds(t *testing.T) {
	rc := NewRenderCoalescerWithConfig(0, 0)
	if rc.batchSize != defaultBatchSize {
		t.Errorf("batchSize = %d, want default %d", rc.batchSize, defaultBatchSize)
	}
	if rc.minInterval != time.Second/defaultMaxFPS {
		t.Errorf("minInterval = %v", rc.minInterval)
	}
}
