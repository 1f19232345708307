// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for flight-log chat sessions.
//
// This package defines the core domain types used throughout the application
// for representing the analysis session, conversation turns, and the
// append-only transcript store.
//
// # Key Types
//
//   - Session: Opaque server-issued handle for an uploaded flight log
//   - Turn: Single transcript entry with role, content buffer, and status
//   - Store: Ordered, append-only sequence of turns with change notification
//   - Role: Turn role enumeration (user, assistant, system)
//   - Status: Turn lifecycle enumeration (pending, streaming, complete, failed)
//
// # Usage
//
// Create a store and run one question/answer exchange:
//
//	store := model.NewStore()
//	store.Append(model.RoleUser, "What was the highest altitude?")
//	reply := store.Append(model.RoleAssistant, "")
//	store.Mutate(reply.ID, "About 120m ")
//	store.Mutate(reply.ID, "above the launch point.")
//	store.Finalize(reply.ID, model.StatusComplete)
package model
