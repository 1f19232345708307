// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the flight-log analysis service.
//
// The service exposes three endpoints the client consumes:
//
//   - GET  /ping              - liveness probe, returns {"pong": true}
//   - POST /upload-log        - multipart log upload, returns {session_id, rows, columns}
//   - POST /chat/{session_id} - JSON {"message"}, streams the answer as
//     server-sent events decoded by the sse package
//
// Errors are classified with ClientError so callers can distinguish upload
// failures, transport failures when initiating chat, and failures after the
// response stream began. Every request carries an X-Request-ID header for
// correlation with service-side logs.
package api
