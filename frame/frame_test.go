/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package frame_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasa-jpl/gogds/frame"
)

func TestFrameDeframeRoundTrip(t *testing.T) {
	// scenario 1: frame the 5-byte payload, deframe it back, no discards.
	payload := []byte{0x00, 0x00, 0x00, 0x01, 0xAA}
	f := frame.NewFPrime(frame.CRC32)

	framed, err := f.Frame(payload)
	require.NoError(t, err)

	frames, remaining, discarded := f.Deframe(framed)
	require.Len(t, frames, 1)
	assert.Equal(t, payload, frames[0])
	assert.Empty(t, remaining)
	assert.Empty(t, discarded)
}

func TestDeframeDiscardsLeadingGarbage(t *testing.T) {
	// scenario 2: garbage before a valid frame is reported as discarded.
	f := frame.NewFPrime(frame.CRC32)
	payload := []byte("hello")
	framed, err := f.Frame(payload)
	require.NoError(t, err)

	garbage := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	pool := append(append([]byte{}, garbage...), framed...)

	frames, remaining, discarded := f.Deframe(pool)
	require.Len(t, frames, 1)
	assert.Equal(t, payload, frames[0])
	assert.Empty(t, remaining)
	assert.Equal(t, garbage, discarded)
}

func TestDeframeChunkingIndependence(t *testing.T) {
	// invariant: any permutation of chunking a byte-stream into sub-reads
	// produces the same frames and the same discarded bytes as one shot.
	f := frame.NewFPrime(frame.CRC32)
	a, _ := f.Frame([]byte("alpha"))
	b, _ := f.Frame([]byte("bravo"))
	garbage := []byte{0x01, 0x02, 0x03}
	whole := append(append(append([]byte{}, garbage...), a...), b...)

	oneShotFrames, oneShotRem, oneShotDisc := f.Deframe(whole)

	var (
		chunkedFrames    [][]byte
		chunkedDiscarded []byte
		pool             []byte
	)
	for _, chunkSize := range chunkItUp(whole, 3) {
		pool = append(pool, chunkSize...)
		frames, remaining, discarded := f.Deframe(pool)
		chunkedFrames = append(chunkedFrames, frames...)
		chunkedDiscarded = append(chunkedDiscarded, discarded...)
		pool = remaining
	}

	require.Equal(t, len(oneShotFrames), len(chunkedFrames))
	for i := range oneShotFrames {
		assert.Equal(t, oneShotFrames[i], chunkedFrames[i])
	}
	assert.Equal(t, oneShotDisc, chunkedDiscarded)
	assert.Equal(t, oneShotRem, pool)
}

func chunkItUp(b []byte, size int) [][]byte {
	var out [][]byte
	for len(b) > 0 {
		n := size
		if n > len(b) {
			n = len(b)
		}
		out = append(out, b[:n])
		b = b[n:]
	}
	return out
}

func TestDeframeTruncatedFrameWaitsForMore(t *testing.T) {
	f := frame.NewFPrime(frame.CRC32)
	framed, err := f.Frame([]byte("full frame body"))
	require.NoError(t, err)

	truncated := framed[:len(framed)-1]
	frames, remaining, discarded := f.Deframe(truncated)
	assert.Empty(t, frames)
	assert.Empty(t, discarded)
	assert.Equal(t, truncated, remaining)
}

func TestDeframeChecksumBitFlipResyncs(t *testing.T) {
	f := frame.NewFPrime(frame.CRC32)
	bad, _ := f.Frame([]byte("corrupted"))
	bad[len(bad)-1] ^= 0xFF // flip a checksum bit

	good, _ := f.Frame([]byte("still good"))
	pool := append(bad, good...)

	frames, remaining, discarded := f.Deframe(pool)
	require.Len(t, frames, 1)
	assert.Equal(t, []byte("still good"), frames[0])
	assert.Empty(t, remaining)
	assert.NotEmpty(t, discarded)
}

func TestFrameZeroLengthPayload(t *testing.T) {
	f := frame.NewFPrime(frame.CRC32)
	framed, err := f.Frame(nil)
	require.NoError(t, err)

	frames, remaining, discarded := f.Deframe(framed)
	require.Len(t, frames, 1)
	assert.Empty(t, frames[0])
	assert.Empty(t, remaining)
	assert.Empty(t, discarded)
}

func TestFrameRejectsOversizePayload(t *testing.T) {
	f := &frame.FPrime{Checksum: frame.CRC32, MaxPayload: 4}
	_, err := f.Frame([]byte("12345"))
	assert.Error(t, err)

	_, err = f.Frame([]byte("1234"))
	assert.NoError(t, err)
}

func TestPermissiveChecksumAcceptsAnything(t *testing.T) {
	f := frame.NewFPrime(frame.Permissive)
	framed, err := f.Frame([]byte("payload"))
	require.NoError(t, err)
	framed[len(framed)-1] ^= 0xFF // would fail CRC32, must not fail permissive

	frames, _, discarded := f.Deframe(framed)
	require.Len(t, frames, 1)
	assert.Equal(t, []byte("payload"), frames[0])
	assert.Empty(t, discarded)
}

func TestChainComposesFramers(t *testing.T) {
	inner := frame.NewFPrime(frame.CRC32)
	outer := frame.NewFPrime(frame.CRC32)
	c := frame.NewChain(inner, outer)

	framed, err := c.Frame([]byte("chained"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(framed, frame.StartWord[:]))
}
