// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the flight-log analysis service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/flightdeck-tui/internal/sse"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the analysis-service client.
type ClientConfig struct {
	// BaseURL is the analysis service base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for small requests like /ping (default: 10s)
	Timeout time.Duration

	// UploadTimeout bounds the whole multipart upload; flight logs can run to
	// tens of megabytes (default: 2m)
	UploadTimeout time.Duration

	// StreamTimeout bounds one complete chat cycle, connect through last
	// fragment. The reference client had no deadline at all, which makes a
	// stalled transport indistinguishable from a slow answer (default: 2m)
	StreamTimeout time.Duration

	// ChatRequestsPerMinute is a client-side politeness limit on chat
	// requests (default: 30, burst 5)
	ChatRequestsPerMinute int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:               "http://127.0.0.1:8000",
		Timeout:               10 * time.Second,
		UploadTimeout:         2 * time.Minute,
		StreamTimeout:         2 * time.Minute,
		ChatRequestsPerMinute: 30,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the flight-log analysis service.
//
// The Client is safe for concurrent use, though the surrounding controllers
// only ever keep one upload and one chat cycle in flight.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.UploadTimeout == 0 {
		config.UploadTimeout = 2 * time.Minute
	}
	if config.StreamTimeout == 0 {
		config.StreamTimeout = 2 * time.Minute
	}
	if config.ChatRequestsPerMinute == 0 {
		config.ChatRequestsPerMinute = 30
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(config.ChatRequestsPerMinute)/60.0), 5),
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// SetBaseURL points the client at a different service instance. Used by
// config hot reload.
func (c *Client) SetBaseURL(url string) {
	c.config.BaseURL = strings.TrimRight(url, "/")
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Ping verifies that the analysis service is reachable and answering.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.config.BaseURL+"/ping", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "unexpected status from analysis service: " + resp.Status,
		}
	}

	var result PingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || !result.Pong {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "malformed ping response", Cause: err}
	}

	return nil
}

// =============================================================================
// LOG UPLOAD
// =============================================================================

// UploadLog transmits the flight log at path as a single multipart request
// and returns the session the service created for it.
func (c *Client) UploadLog(ctx context.Context, path string) (*UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUpload, Message: "cannot open log file", Cause: err}
	}
	defer f.Close()

	return c.UploadLogReader(ctx, filepath.Base(path), f)
}

// UploadLogReader uploads log bytes from r under the given file name.
func (c *Client) UploadLogReader(ctx context.Context, name string, r io.Reader) (*UploadResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUpload, Message: "failed to build upload request", Cause: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, &ClientError{Type: ErrTypeUpload, Message: "failed to read log file", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeUpload, Message: "failed to build upload request", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.config.BaseURL+"/upload-log", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	// Uploads get their own, longer timeout.
	uploadClient := &http.Client{Timeout: c.config.UploadTimeout}

	resp, err := uploadClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ClientError{Type: ErrTypeUpload, Message: "upload timed out", Cause: err}
		}
		return nil, &ClientError{Type: ErrTypeUpload, Message: "upload failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeUpload,
			Message: "upload rejected: " + resp.Status,
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUpload, Message: "failed to read upload response", Cause: err}
	}

	// The service reports some failures in-band with a 200 status.
	var svcErr serviceError
	if err := json.Unmarshal(raw, &svcErr); err == nil && svcErr.Error != "" {
		return nil, &ClientError{Type: ErrTypeUpload, Message: svcErr.Error}
	}

	var result UploadResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &ClientError{Type: ErrTypeUpload, Message: "malformed upload response", Cause: err}
	}
	if result.SessionID == "" {
		return nil, &ClientError{Type: ErrTypeUpload, Message: "upload response carried no session id"}
	}

	return &result, nil
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// ChatStream sends a question scoped to sessionID and invokes onFragment for
// every answer fragment, in arrival order. It returns when the stream
// completes or fails.
//
// Failures before the stream begins are ErrTypeTransport; failures while
// reading the body are ErrTypeStream, and fragments delivered before such a
// failure have already reached the callback.
func (c *Client) ChatStream(ctx context.Context, sessionID, message string, onFragment sse.FragmentFunc) error {
	if sessionID == "" {
		return ErrNoSession
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Type: ErrTypeTransport, Message: "chat request aborted", Cause: err}
	}

	payload, err := json.Marshal(ChatRequest{Message: message})
	if err != nil {
		return &ClientError{Type: ErrTypeTransport, Message: "failed to marshal chat request", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.StreamTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPost, c.config.BaseURL+"/chat/"+sessionID, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	// No per-request timeout here: the context deadline bounds the whole
	// cycle, and a fixed client timeout would cut off long answers.
	streamClient := &http.Client{}

	resp, err := streamClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &ClientError{Type: ErrTypeTimeout, Message: "chat request timed out", Cause: err}
		}
		return &ClientError{Type: ErrTypeTransport, Message: "chat request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeTransport,
			Message: "chat request rejected: " + resp.Status,
		}
	}

	// An unknown session comes back as a JSON error body with a 200 status.
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var svcErr serviceError
		if err := json.NewDecoder(resp.Body).Decode(&svcErr); err == nil && svcErr.Error != "" {
			if svcErr.Error == "invalid session_id" {
				return ErrInvalidSession
			}
			return &ClientError{Type: ErrTypeTransport, Message: svcErr.Error}
		}
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "unexpected JSON response to chat request"}
	}

	if err := sse.NewDecoder().Consume(ctx, resp.Body, onFragment); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &ClientError{Type: ErrTypeStream, Message: "stream deadline exceeded", Cause: err}
		}
		return &ClientError{Type: ErrTypeStream, Message: "stream failed", Cause: err}
	}

	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// newRequest builds a request with the standard correlation header attached.
func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: fmt.Sprintf("failed to create %s request", method), Cause: err}
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}
