// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sse decodes the server-sent-events response stream emitted by the
// flight-log analysis service.
package sse

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkedReader yields a fixed byte slice in chunks of at most size bytes,
// simulating arbitrary transport fragmentation.
type chunkedReader struct {
	data []byte
	size int
	off  int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.off >= len(c.data) {
		return 0, io.EOF
	}
	n := c.size
	if n > len(p) {
		n = len(p)
	}
	if c.off+n > len(c.data) {
		n = len(c.data) - c.off
	}
	copy(p, c.data[c.off:c.off+n])
	c.off += n
	return n, nil
}

// failingReader returns some bytes, then fails.
type failingReader struct {
	data []byte
	err  error
	done bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if f.done {
		return 0, f.err
	}
	f.done = true
	n := copy(p, f.data)
	return n, nil
}

func collect(t *testing.T, r io.Reader) ([]string, error) {
	t.Helper()
	var frags []string
	err := NewDecoder().Consume(context.Background(), r, func(fragment string) {
		frags = append(frags, fragment)
	})
	return frags, err
}

// =============================================================================
// LINE CLASSIFICATION TESTS
// =============================================================================

func TestDecoderLineShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"data line", "data: hello\n", []string{"hello"}},
		{"empty payload", "data: \n", nil},
		{"bare data field", "data:\n", nil},
		{"blank separator", "\n", nil},
		{"comment line", ": comment\n", nil},
		{"unknown field", "event: done\n", nil},
		{"no field separator space", "data:hello\n", []string{"hello"}},
		{"crlf terminated", "data: hello\r\n", []string{"hello"}},
		{"full exchange", "data: The flight reached 120m.\n\ndata: Battery stayed healthy.\n\n",
			[]string{"The flight reached 120m.", "Battery stayed healthy."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frags, err := collect(t, strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, frags)
		})
	}
}

// =============================================================================
// CHUNK BOUNDARY TESTS
// =============================================================================

func TestDecoderChunkBoundaryIndependence(t *testing.T) {
	stream := "data: Hel\ndata: lo wor\n: keepalive\n\ndata: ld\n"

	whole, err := collect(t, strings.NewReader(stream))
	require.NoError(t, err)
	require.Equal(t, []string{"Hel", "lo wor", "ld"}, whole)

	// Every chunk size must reassemble to the identical fragment sequence,
	// including size 1 which splits every line across reads.
	for size := 1; size <= len(stream); size++ {
		frags, err := collect(t, &chunkedReader{data: []byte(stream), size: size})
		require.NoError(t, err, "chunk size %d", size)
		assert.Equal(t, whole, frags, "chunk size %d", size)
	}
}

func TestDecoderFragmentConcatenation(t *testing.T) {
	stream := "data: Hel\ndata: lo wor\ndata: ld\n"

	frags, err := collect(t, strings.NewReader(stream))
	require.NoError(t, err)
	assert.Equal(t, "Hello world", strings.Join(frags, ""))
}

func TestDecoderNeverDeliversLineTwice(t *testing.T) {
	stream := "data: one\ndata: two\ndata: three\n"

	frags, err := collect(t, &chunkedReader{data: []byte(stream), size: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, frags)
}

// =============================================================================
// STREAM END TESTS
// =============================================================================

func TestDecoderFlushesUnterminatedTail(t *testing.T) {
	// The server should newline-terminate the last frame, but a truncated
	// tail is flushed rather than dropped.
	frags, err := collect(t, strings.NewReader("data: first\ndata: last fragment"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "last fragment"}, frags)
}

func TestDecoderIgnoresNonDataTail(t *testing.T) {
	frags, err := collect(t, strings.NewReader("data: first\n: trailing comment"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, frags)
}

// =============================================================================
// FAILURE TESTS
// =============================================================================

func TestDecoderReadFailureKeepsDeliveredFragments(t *testing.T) {
	boom := errors.New("connection reset")
	r := &failingReader{data: []byte("data: one\ndata: two\n"), err: boom}

	var frags []string
	err := NewDecoder().Consume(context.Background(), r, func(fragment string) {
		frags = append(frags, fragment)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"one", "two"}, frags)
}

func TestDecoderStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDecoder().Consume(ctx, strings.NewReader("data: hello\n"), func(string) {
		t.Error("no fragment should be delivered after cancellation")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// COUNTER TESTS
// =============================================================================

func TestDecoderCounters(t *testing.T) {
	d := NewDecoder()
	input := "data: a\n\ndata: b\n"

	err := d.Consume(context.Background(), strings.NewReader(input), func(string) {})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Fragments())
	assert.Equal(t, int64(len(input)), d.BytesRead())
}
