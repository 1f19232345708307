// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat orchestrates the upload and question/answer lifecycle.
package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/flightdeck-tui/internal/api"
	"github.com/jeranaias/flightdeck-tui/internal/model"
)

// fakeUploader returns a canned response, optionally blocking until released.
type fakeUploader struct {
	resp    *api.UploadResponse
	err     error
	block   chan struct{}
	started chan struct{}
}

func (f *fakeUploader) UploadLog(ctx context.Context, path string) (*api.UploadResponse, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newUploadFixture(uploader Uploader) (*UploadController, *SessionState, *model.Store) {
	sessions := NewSessionState()
	store := model.NewStore()
	return NewUploadController(uploader, sessions, store), sessions, store
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmitInstallsSessionAndBanner(t *testing.T) {
	uploader := &fakeUploader{resp: &api.UploadResponse{
		SessionID: "sess-42",
		Rows:      1000,
		Columns:   []string{"Alt", "Volt"},
	}}
	ctl, sessions, store := newUploadFixture(uploader)

	session, err := ctl.Submit(context.Background(), "/logs/flight.bin")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if session.ID != "sess-42" || session.Rows != 1000 {
		t.Errorf("unexpected session: %+v", session)
	}

	current, ok := sessions.Current()
	if !ok || current.ID != "sess-42" {
		t.Errorf("session not installed: %+v ok=%v", current, ok)
	}

	if store.Len() != 1 {
		t.Fatalf("expected exactly one banner turn, got %d", store.Len())
	}
	banner, _ := store.Last()
	if banner.Role != model.RoleAssistant {
		t.Errorf("banner should be assistant-authored, got %s", banner.Role)
	}
	if banner.Status != model.StatusComplete {
		t.Errorf("banner should be complete, got %s", banner.Status)
	}
	if !strings.Contains(banner.Content, "1000") || !strings.Contains(banner.Content, "data points") {
		t.Errorf("banner should announce the row count: %q", banner.Content)
	}

	if ctl.Uploading() {
		t.Error("uploading flag not released after success")
	}
}

func TestSubmitEmptyPath(t *testing.T) {
	ctl, sessions, store := newUploadFixture(&fakeUploader{})

	if _, err := ctl.Submit(context.Background(), "  "); !errors.Is(err, ErrNoFile) {
		t.Errorf("expected ErrNoFile, got %v", err)
	}
	if _, ok := sessions.Current(); ok {
		t.Error("no session should be installed")
	}
	if store.Len() != 0 {
		t.Error("no turn should be appended")
	}
}

func TestSubmitFailureLeavesSessionUnset(t *testing.T) {
	uploader := &fakeUploader{err: &api.ClientError{Type: api.ErrTypeUpload, Message: "could not parse log"}}
	ctl, sessions, store := newUploadFixture(uploader)

	_, err := ctl.Submit(context.Background(), "/logs/flight.bin")
	if !api.IsUpload(err) {
		t.Fatalf("expected upload error, got %v", err)
	}
	if _, ok := sessions.Current(); ok {
		t.Error("failed upload must not install a session")
	}
	if store.Len() != 0 {
		t.Error("failed upload must not append a banner")
	}
	if ctl.Uploading() {
		t.Error("uploading flag not released after failure")
	}
}

func TestSubmitRejectsConcurrentUpload(t *testing.T) {
	uploader := &fakeUploader{
		resp:    &api.UploadResponse{SessionID: "sess-1", Rows: 10},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	ctl, _, _ := newUploadFixture(uploader)

	done := make(chan error, 1)
	go func() {
		_, err := ctl.Submit(context.Background(), "/logs/a.bin")
		done <- err
	}()
	<-uploader.started

	if !ctl.Uploading() {
		t.Error("uploading flag should be set while in flight")
	}
	if _, err := ctl.Submit(context.Background(), "/logs/b.bin"); !errors.Is(err, ErrUploadInFlight) {
		t.Errorf("expected ErrUploadInFlight, got %v", err)
	}

	close(uploader.block)
	if err := <-done; err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	if ctl.Uploading() {
		t.Error("uploading flag not released")
	}
}

func TestSubmitReplacesPriorSession(t *testing.T) {
	uploader := &fakeUploader{resp: &api.UploadResponse{SessionID: "sess-new", Rows: 5}}
	ctl, sessions, _ := newUploadFixture(uploader)
	sessions.Replace(model.Session{ID: "sess-old", Rows: 1})

	if _, err := ctl.Submit(context.Background(), "/logs/flight.bin"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	current, _ := sessions.Current()
	if current.ID != "sess-new" {
		t.Errorf("session not replaced: %+v", current)
	}
}

// =============================================================================
// EXTENSION HINT TESTS
// =============================================================================

func TestKnownLogExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"flight.bin", true},
		{"FLIGHT.BIN", true},
		{"mission.tlog", true},
		{"notes.txt", false},
		{"archive.bin.gz", false},
		{"flight", false},
	}

	for _, tt := range tests {
		if got := KnownLogExtension(tt.path); got != tt.want {
			t.Errorf("KnownLogExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
