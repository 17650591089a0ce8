// Package frame implements the framing/deframing state machine.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package frame

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// CCSDS wraps a payload in a minimal CCSDS space-packet primary header
// (version/type/APID/sequence-count/data-length), grounded on the
// original's plugins/framing/ccsds.py SpacePacketFramerDeframer. Deframe is
// a no-op passthrough as in the original ("deframe using fprime for now" on
// the wrapped layer): CCSDS packets here are produced for uplink transport
// to FSW, which is the deframing side on the spacecraft, out of scope here.
type CCSDS struct {
	mu  sync.Mutex
	seq uint16
}

const ccsdsSeqMax = 16384

func (c *CCSDS) Frame(payload []byte) ([]byte, error) {
	if len(payload) > 0xFFFF {
		return nil, fmt.Errorf("payload length %d exceeds CCSDS 16-bit data length field", len(payload))
	}
	c.mu.Lock()
	seq := c.seq
	c.seq = (c.seq + 1) % ccsdsSeqMax
	c.mu.Unlock()

	// primary header, 6 bytes: version(3)/type(1)/secHdrFlag(1)/apid(11) |
	// seqFlags(2)/seqCount(14) | dataLen-1(16)
	var hdr [6]byte
	word0 := uint16(0x1000) | (seqAPID(payload) & 0x7FF) // type=TC(1), no sec hdr
	binary.BigEndian.PutUint16(hdr[0:2], word0)
	word1 := uint16(0xC000) | (seq & 0x3FFF) // seqFlags=unsegmented(3)
	binary.BigEndian.PutUint16(hdr[2:4], word1)
	binary.BigEndian.PutUint16(hdr[4:6], uint16(len(payload)-1))

	out := make([]byte, 0, len(hdr)+len(payload))
	out = append(out, hdr[:]...)
	out = append(out, payload...)
	return out, nil
}

// seqAPID derives a stable, low-entropy application-process-id from the
// payload's leading descriptor bytes, mirroring the original's
// APID.from_data() convenience without depending on an external APID table.
func seqAPID(payload []byte) uint16 {
	if len(payload) < 4 {
		return 0
	}
	return uint16(binary.BigEndian.Uint32(payload[:4]) & 0x7FF)
}

// Deframe is a passthrough: CCSDS space-packet unwrapping on the ground side
// is out of scope (the spacecraft is the consumer of uplinked CCSDS frames).
func (c *CCSDS) Deframe(pool []byte) (frames [][]byte, remaining []byte, discarded []byte) {
	if len(pool) == 0 {
		return nil, pool, nil
	}
	return [][]byte{pool}, nil, nil
}
