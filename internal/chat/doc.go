// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat orchestrates the upload and question/answer lifecycle.
//
// Three collaborators live here, kept free of any rendering concerns so the
// whole conversation core is testable against fake transports:
//
//   - SessionState holds the single live analysis session.
//   - UploadController drives one flight-log upload at a time and installs
//     the resulting session.
//   - Controller runs one question/answer cycle at a time: it appends the
//     user turn and the assistant placeholder, streams fragments into the
//     placeholder, and finalizes it complete or failed.
//
// Upload errors surface to the caller. Chat transport and stream errors are
// absorbed into the assistant turn as a fixed fallback message with a failed
// status, so the conversation stays usable for the next question.
package chat
