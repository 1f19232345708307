// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the flight-log analysis service.
package api

// UploadResponse is the JSON body returned by POST /upload-log.
type UploadResponse struct {
	SessionID string   `json:"session_id"`
	Rows      int      `json:"rows"`
	Columns   []string `json:"columns"`
}

// ChatRequest is the JSON body sent to POST /chat/{session_id}.
type ChatRequest struct {
	Message string `json:"message"`
}

// PingResponse is the JSON body returned by GET /ping.
type PingResponse struct {
	Pong bool `json:"pong"`
}

// serviceError is the in-band error shape the service returns with a 200
// status, e.g. {"error": "invalid session_id"} for an unknown session.
type serviceError struct {
	Error string `json:"error"`
}
