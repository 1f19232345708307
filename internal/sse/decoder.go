// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sse decodes the server-sent-events response stream emitted by the
// flight-log analysis service.
package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// dataPrefix marks a payload-bearing frame. The field separator space is
// optional on the wire, so the prefix is matched without it and the payload
// is trimmed afterwards.
const dataPrefix = "data:"

// readBufferSize is the per-read chunk size. Small enough to surface
// fragments promptly, large enough to avoid syscall churn.
const readBufferSize = 4096

// FragmentFunc receives one extracted payload fragment. Fragments arrive in
// wire order; the callback runs synchronously on the consuming goroutine.
type FragmentFunc func(fragment string)

// =============================================================================
// DECODER
// =============================================================================

// Decoder incrementally splits a byte stream into newline-delimited frames
// and extracts payload fragments from data-bearing ones.
//
// A Decoder is single-use: create one per response body.
type Decoder struct {
	carry     strings.Builder
	fragments int
	bytes     int64
}

// NewDecoder creates a decoder for one response stream.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Consume reads r until EOF, invoking onFragment for every payload fragment.
//
// The trailing partial line is carried between reads so frames are never
// split or double-processed. A non-empty buffer left at EOF is flushed as a
// final fragment: servers are expected to newline-terminate frames, but
// discarding a truncated tail loses real payload more often than it drops
// garbage.
//
// A read failure mid-stream stops decoding cleanly: every fragment extracted
// before the failure has already been delivered, and the error is returned
// for the caller to map onto the active turn.
func (d *Decoder) Consume(ctx context.Context, r io.Reader, onFragment FragmentFunc) error {
	buf := make([]byte, readBufferSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			d.bytes += int64(n)
			d.feed(string(buf[:n]), onFragment)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				d.flush(onFragment)
				return nil
			}
			return fmt.Errorf("stream read failed: %w", err)
		}
	}
}

// Fragments returns the number of payload fragments delivered so far.
func (d *Decoder) Fragments() int {
	return d.fragments
}

// BytesRead returns the number of raw bytes consumed so far.
func (d *Decoder) BytesRead() int64 {
	return d.bytes
}

// =============================================================================
// FRAME SPLITTING
// =============================================================================

// feed appends a chunk to the carry buffer and processes every complete line
// in it. The trailing partial line (no newline yet) stays in the buffer for
// the next chunk.
func (d *Decoder) feed(chunk string, onFragment FragmentFunc) {
	buffered := d.carry.String() + chunk
	d.carry.Reset()

	for {
		idx := strings.IndexByte(buffered, '\n')
		if idx < 0 {
			d.carry.WriteString(buffered)
			return
		}
		d.processLine(buffered[:idx], onFragment)
		buffered = buffered[idx+1:]
	}
}

// flush treats whatever is left in the carry buffer at EOF as a final frame.
func (d *Decoder) flush(onFragment FragmentFunc) {
	if d.carry.Len() == 0 {
		return
	}
	line := d.carry.String()
	d.carry.Reset()
	d.processLine(line, onFragment)
}

// processLine classifies one frame and emits its payload if it carries one.
// Blank separator lines, comment lines, and frames with an empty payload are
// protocol noise, not data.
func (d *Decoder) processLine(line string, onFragment FragmentFunc) {
	line = strings.TrimSuffix(line, "\r")
	if !strings.HasPrefix(line, dataPrefix) {
		return
	}
	payload := strings.TrimSpace(line[len(dataPrefix):])
	if payload == "" {
		return
	}
	d.fragments++
	onFragment(payload)
}
