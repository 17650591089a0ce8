// Package adapter implements the Byte Adapter (spec §4.1): a polymorphic
// component over {open, close, read(timeout), write(frame)} with three
// concrete variants (IP, UART, None). Grounded on the teacher's transport
// client dial/reconnect loop (transport/handler.go's net.Dial retry pattern)
// generalized from an object-stream client to a raw byte-link adapter.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package adapter

import (
	"errors"
	"time"
)

// Adapter is the capability set every byte-link variant implements. Per
// spec §4.1, read and write never let I/O failures escape as errors to the
// caller: read returns an empty slice on timeout or transient failure, and
// write reports false rather than propagating the cause.
type Adapter interface {
	// Open acquires the underlying link. Idempotent: calling Open on an
	// already-open adapter is a no-op.
	Open() error
	// Close releases the link. Idempotent.
	Close() error
	// Read blocks up to timeout for bytes from the link. Returns an empty
	// (non-nil-required) slice on timeout, disconnect, or transient error;
	// it never returns a non-nil error for ordinary link conditions.
	Read(timeout time.Duration) []byte
	// Write attempts to send frame in full. Returns true iff accepted by
	// the link in its entirety.
	Write(frame []byte) bool
}

// ErrDisabled is returned only by None.Write, and only ever logged, never
// propagated past the adapter boundary per the no-exceptions-escape rule.
var ErrDisabled = errors.New("adapter: disabled")
