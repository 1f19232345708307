// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the flight-log analysis service.
package api

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the analysis-service client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	// ErrTypeConnection: the service could not be reached at all.
	ErrTypeConnection
	// ErrTypeTimeout: a request or stream exceeded its deadline.
	ErrTypeTimeout
	// ErrTypeUpload: transport failure or non-success response during upload.
	ErrTypeUpload
	// ErrTypeNoSession: chat attempted without an active session.
	ErrTypeNoSession
	// ErrTypeTransport: transport failure or non-success response when
	// initiating a chat request, before the stream began.
	ErrTypeTransport
	// ErrTypeStream: failure while reading or decoding the response body
	// after the stream began.
	ErrTypeStream
	// ErrTypeInvalidResponse: the service answered with a body the client
	// cannot interpret.
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable    = &ClientError{Type: ErrTypeConnection, Message: "analysis service is not reachable"}
	ErrTimeout        = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrNoSession      = &ClientError{Type: ErrTypeNoSession, Message: "no active session"}
	ErrInvalidSession = &ClientError{Type: ErrTypeNoSession, Message: "session is not known to the service"}
)

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

func hasType(err error, t ErrorType) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == t
	}
	return false
}

// IsUpload checks if an error is an upload failure.
func IsUpload(err error) bool {
	return hasType(err, ErrTypeUpload)
}

// IsNoSession checks if an error means chat was attempted without a usable
// session.
func IsNoSession(err error) bool {
	return hasType(err, ErrTypeNoSession)
}

// IsTransport checks if an error occurred before the response stream began.
func IsTransport(err error) bool {
	return hasType(err, ErrTypeTransport)
}

// IsStream checks if an error occurred after the response stream began.
func IsStream(err error) bool {
	return hasType(err, ErrTypeStream)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return hasType(err, ErrTypeTimeout) || errors.Is(err, ErrTimeout)
}

// IsUnreachable checks if an error indicates the service is down.
func IsUnreachable(err error) bool {
	return hasType(err, ErrTypeConnection) || errors.Is(err, ErrUnreachable)
}
