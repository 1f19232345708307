// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat orchestrates the upload and question/answer lifecycle.
package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jeranaias/flightdeck-tui/internal/api"
	"github.com/jeranaias/flightdeck-tui/internal/logging"
	"github.com/jeranaias/flightdeck-tui/internal/model"
)

// Uploader is the slice of the api client the upload controller needs.
type Uploader interface {
	UploadLog(ctx context.Context, path string) (*api.UploadResponse, error)
}

// Sentinel errors for upload preconditions.
var (
	ErrNoFile         = &api.ClientError{Type: api.ErrTypeUpload, Message: "no log file selected"}
	ErrUploadInFlight = &api.ClientError{Type: api.ErrTypeUpload, Message: "an upload is already in progress"}
)

// LogExtensions are the file extensions the service is known to accept.
// Advisory only: the service is the authority on acceptance.
var LogExtensions = []string{".bin", ".tlog"}

// KnownLogExtension reports whether path carries one of the usual flight-log
// extensions.
func KnownLogExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range LogExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// =============================================================================
// UPLOAD CONTROLLER
// =============================================================================

// UploadController drives flight-log uploads into exactly one in-flight
// request, producing the session the rest of the conversation is scoped to.
type UploadController struct {
	client    Uploader
	sessions  *SessionState
	store     *model.Store
	uploading atomic.Bool
}

// NewUploadController creates an upload controller.
func NewUploadController(client Uploader, sessions *SessionState, store *model.Store) *UploadController {
	return &UploadController{
		client:   client,
		sessions: sessions,
		store:    store,
	}
}

// Uploading reports whether an upload is outstanding. The UI disables the
// upload affordance while true.
func (u *UploadController) Uploading() bool {
	return u.uploading.Load()
}

// Submit uploads the log at path and installs the resulting session.
//
// A second call while one upload is outstanding is rejected, since only one
// session can be active at a time. On success an assistant-authored turn
// announcing the parsed row count is appended to the transcript; the prior
// conversation is left in place but is effectively orphaned once the session
// changes. On failure the session is left untouched and the error surfaces
// to the caller; the in-flight flag is released on every path.
func (u *UploadController) Submit(ctx context.Context, path string) (model.Session, error) {
	if strings.TrimSpace(path) == "" {
		return model.Session{}, ErrNoFile
	}
	if !u.uploading.CompareAndSwap(false, true) {
		return model.Session{}, ErrUploadInFlight
	}
	defer u.uploading.Store(false)

	logging.L().Info("uploading flight log", "file", filepath.Base(path))

	resp, err := u.client.UploadLog(ctx, path)
	if err != nil {
		logging.L().Error("upload failed", "file", filepath.Base(path), "err", err)
		return model.Session{}, err
	}

	session := model.Session{
		ID:        resp.SessionID,
		Rows:      resp.Rows,
		Columns:   resp.Columns,
		CreatedAt: time.Now(),
	}
	u.sessions.Replace(session)

	banner := u.store.Append(model.RoleAssistant, uploadBanner(path, resp.Rows))
	u.store.Finalize(banner.ID, model.StatusComplete)

	logging.L().Info("session created", "session", session.ID, "rows", session.Rows)
	return session, nil
}

// uploadBanner is the transcript message surfacing the upload result inline
// with the chat.
func uploadBanner(path string, rows int) string {
	return fmt.Sprintf("Parsed **%s** into %d data points. Ask me anything about this flight.",
		filepath.Base(path), rows)
}
