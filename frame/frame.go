// Package frame implements the framing/deframing state machine (spec §4.2):
// converting between framed wire packets and payload bytes, detecting and
// discarding garbage on resync. Adapted from the teacher's PDU framing
// (transport/pdu.go: fixed header + rolling offsets) generalized from an
// object-stream protocol to the GDS uplink/downlink wire format.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package frame

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/nasa-jpl/gogds/cmn/debug"
)

// MaxPayloadLen is pinned to the 32-bit ceiling per spec §9 Open Question:
// "implementers should commit to... 32-bit in the core format and reject
// payloads >= 2^32-1".
const MaxPayloadLen = ^uint32(0) - 1

// StartWord is the fixed 4-byte start-of-frame marker for the default
// F´-style wire format (spec §4.2). "A5A5" are literal ASCII bytes in the
// original fprime-gds transport layer; the framed format here uses the
// same constant as its binary big-endian encoding.
var StartWord = [4]byte{0xA5, 0xA5, 0xA5, 0xA5}

const (
	lenStart    = 4
	lenLength   = 4
	lenChecksum = 4
	sizeProtoHdr = lenStart + lenLength
)

// Checksum is the pluggable checksum strategy selected at peering time
// (spec §4.2: "Checksum is selectable: 32-bit CRC (default) or a permissive
// mode that accepts any checksum").
type Checksum interface {
	// Compute returns the 4-byte checksum over region (LENGTH||PAYLOAD).
	Compute(region []byte) [4]byte
	// Verify reports whether got matches the checksum computed over region.
	Verify(region []byte, got [4]byte) bool
}

type crc32Checksum struct{}

func (crc32Checksum) Compute(region []byte) (out [4]byte) {
	binary.BigEndian.PutUint32(out[:], crc32.ChecksumIEEE(region))
	return
}

func (crc32Checksum) Verify(region []byte, got [4]byte) bool {
	return crc32Checksum{}.Compute(region) == got
}

type permissiveChecksum struct{}

func (permissiveChecksum) Compute(region []byte) [4]byte { return [4]byte{} }
func (permissiveChecksum) Verify([]byte, [4]byte) bool   { return true }

var (
	CRC32      Checksum = crc32Checksum{}
	Permissive Checksum = permissiveChecksum{}
)

// Codec is the generalized Framer/Deframer contract (spec §4.2), satisfied
// by the default F´-style codec and by the CCSDS/SDLP plugin variants, and
// composable via Chain.
type Codec interface {
	// Frame prepends START and LENGTH, computes the checksum over the
	// selected region, and appends it. Returns an error if payload exceeds
	// the codec's maximum.
	Frame(payload []byte) ([]byte, error)
	// Deframe consumes an in-memory byte pool and returns the frames it
	// could extract, the remaining (possibly non-empty, incomplete) pool,
	// and any bytes it discarded while resynchronizing.
	Deframe(pool []byte) (frames [][]byte, remaining []byte, discarded []byte)
}

// FPrime is the default wire format of spec §4.2:
//
//	START(4B) | LENGTH(4B) | PAYLOAD(N bytes) | CHECKSUM(4B)
type FPrime struct {
	Checksum   Checksum
	MaxPayload uint32 // 0 means MaxPayloadLen
}

func NewFPrime(cs Checksum) *FPrime {
	return &FPrime{Checksum: cs, MaxPayload: MaxPayloadLen}
}

func (f *FPrime) maxPayload() uint32 {
	if f.MaxPayload == 0 {
		return MaxPayloadLen
	}
	return f.MaxPayload
}

func (f *FPrime) Frame(payload []byte) ([]byte, error) {
	if uint32(len(payload)) > f.maxPayload() {
		return nil, fmt.Errorf("payload length %d exceeds maximum %d", len(payload), f.maxPayload())
	}
	out := make([]byte, 0, sizeProtoHdr+len(payload)+lenChecksum)
	out = append(out, StartWord[:]...)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	out = append(out, lenBuf[:]...)
	out = append(out, payload...)
	cs := f.checksum().Compute(out[lenStart:])
	out = append(out, cs[:]...)
	debug.Assert(len(out) == sizeProtoHdr+len(payload)+lenChecksum, "framed length must equal header+payload+checksum")
	return out, nil
}

func (f *FPrime) checksum() Checksum {
	if f.Checksum == nil {
		return CRC32
	}
	return f.Checksum
}

// Deframe implements spec §4.2's five-step algorithm exactly:
//  1. scan for START, discarding bytes before it
//  2. wait for at least 4 bytes (LENGTH) after the marker
//  3. parse LENGTH; if it exceeds the max, or the pool is short, wait (incomplete, no discard)
//  4. verify checksum; on mismatch, discard exactly the START byte and resync from next byte
//  5. on success, emit the payload, advance past the checksum, and loop
func (f *FPrime) Deframe(pool []byte) (frames [][]byte, remaining []byte, discarded []byte) {
	cs := f.checksum()
	maxPayload := f.maxPayload()

	for {
		idx := indexStart(pool)
		if idx < 0 {
			// no marker anywhere: the whole pool (short of a possible partial
			// marker at the tail) is garbage.
			keep := partialMarkerTail(pool)
			discarded = append(discarded, pool[:len(pool)-keep]...)
			pool = pool[len(pool)-keep:]
			break
		}
		if idx > 0 {
			discarded = append(discarded, pool[:idx]...)
			pool = pool[idx:]
		}

		if len(pool) < sizeProtoHdr {
			break // wait for more - not enough for START+LENGTH yet
		}
		length := binary.BigEndian.Uint32(pool[lenStart:sizeProtoHdr])
		if length > maxPayload {
			// cannot possibly be a valid frame at this position; nothing
			// else to do until more bytes arrive, so stop without discarding.
			break
		}
		total := sizeProtoHdr + int(length) + lenChecksum
		if len(pool) < total {
			break // incomplete - wait for more, do not discard
		}

		region := pool[lenStart : sizeProtoHdr+int(length)]
		var got [4]byte
		copy(got[:], pool[sizeProtoHdr+int(length):total])
		if !cs.Verify(region, got) {
			// resync: discard only the START byte, rescan from next byte
			discarded = append(discarded, pool[0])
			pool = pool[1:]
			continue
		}

		payload := make([]byte, length)
		copy(payload, pool[sizeProtoHdr:sizeProtoHdr+int(length)])
		frames = append(frames, payload)
		pool = pool[total:]
	}
	remaining = pool
	return
}

func indexStart(pool []byte) int {
	if len(pool) < lenStart {
		return -1
	}
	for i := 0; i+lenStart <= len(pool); i++ {
		if pool[i] == StartWord[0] && pool[i+1] == StartWord[1] && pool[i+2] == StartWord[2] && pool[i+3] == StartWord[3] {
			return i
		}
	}
	return -1
}

// partialMarkerTail returns how many trailing bytes of pool could be the
// prefix of a START marker that hasn't fully arrived yet, so they are kept
// rather than discarded.
func partialMarkerTail(pool []byte) int {
	maxKeep := lenStart - 1
	if len(pool) < maxKeep {
		maxKeep = len(pool)
	}
	for keep := maxKeep; keep > 0; keep-- {
		tail := pool[len(pool)-keep:]
		if matchesPrefix(StartWord[:], tail) {
			return keep
		}
	}
	return 0
}

func matchesPrefix(marker, tail []byte) bool {
	for i, b := range tail {
		if marker[i] != b {
			return false
		}
	}
	return true
}
